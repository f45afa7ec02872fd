package sqlinline

const QInsertUser = `--sql 88c926eb-b643-4c3c-8e3d-bb7a986200d5
insert into users (id, email, name, password_hash, premium, created_at, updated_at)
values (gen_random_uuid(), lower($1::text), $2::text, $3::text, $4::boolean, now(), now())
returning id, email, name, password_hash, premium, created_at, updated_at;
`

const QSelectUserByID = `--sql 499d0e66-318c-4bfa-b3b3-ce64a0cc78f9
select id, email, name, password_hash, premium, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql e44feec9-4a39-49e3-8545-666be3032421
select id, email, name, password_hash, premium, created_at, updated_at
from users
where email = lower($1::text)
limit 1;
`

const QUpdateUserName = `--sql 3bd6009d-338c-4fc2-9f9c-c28de283e799
update users
set name = $2::text,
    updated_at = now()
where id = $1::uuid
returning id, email, name, password_hash, premium, created_at, updated_at;
`

const QUpdateUserPremium = `--sql ba138a5c-f577-43cb-9bee-03ddddd22040
update users
set premium = $2::boolean,
    updated_at = now()
where id = $1::uuid
returning id, email, name, password_hash, premium, created_at, updated_at;
`

const QUpdateUserPremiumByEmail = `--sql bd5a875e-1d2e-49e4-8d13-1fc620a1fb04
update users
set premium = $2::boolean,
    updated_at = now()
where email = lower($1::text)
returning id, email, name, password_hash, premium, created_at, updated_at;
`
