package sqlinline

const QInsertChatMessage = `--sql c8b062cf-b570-48cb-a3bd-a68d534db5ed
insert into chat_messages (id, user_id, consultation_id, role, content, created_at)
values (gen_random_uuid(), $1::uuid, nullif($2::text, '')::uuid, $3::text, $4::text, clock_timestamp())
returning id, created_at;
`

const QSelectChatMessages = `--sql 6be8b6e3-1815-460c-9bd9-fd0d33404c43
select id, user_id, coalesce(consultation_id::text, ''), role, content, created_at
from chat_messages
where user_id = $1::uuid
  and coalesce(consultation_id::text, '') = $2::text
order by created_at asc, seq asc;
`
