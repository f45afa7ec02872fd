package sqlinline

// QSelectProviderCredential returns the stored token and the model saved
// alongside it ('' when none).
const QSelectProviderCredential = `--sql 3c1f9b6e-52a8-4d0e-9f47-e1d2a6b8c504
select token, coalesce(properties ->> 'model', '') as model
from integration_tokens
where provider = $1::text
limit 1;
`

// QUpsertProviderCredential replaces the token and properties of a provider.
const QUpsertProviderCredential = `--sql b7e4d2a1-0c93-4f6b-8a15-5d9e3f72c1a8
insert into integration_tokens (provider, token, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
