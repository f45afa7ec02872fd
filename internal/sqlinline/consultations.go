package sqlinline

// QInsertConsultation never stamps a row earlier than the user's latest one.
const QInsertConsultation = `--sql 46e2ab2e-4bf6-4e03-8e60-5bb3a979404d
insert into consultations (id, user_id, symptoms, diagnosis, severity, medications, recommendations, created_at)
values (
    gen_random_uuid(),
    $1::uuid,
    $2::text,
    $3::text,
    $4::text,
    coalesce($5::text[], '{}'::text[]),
    $6::text,
    greatest(
        clock_timestamp(),
        coalesce((select max(c.created_at) from consultations c where c.user_id = $1::uuid), '-infinity'::timestamptz)
    )
)
returning id;
`

const QCountConsultationsSince = `--sql 721fdd69-563a-4f4e-a9cd-77efab55605c
select count(*)::int
from consultations
where user_id = $1::uuid
  and created_at >= $2::timestamptz;
`

// QSelectConsultationHistory treats a negative limit as no limit. Rows that
// share a timestamp come back in insertion order, newest first.
const QSelectConsultationHistory = `--sql f0a32583-6e82-4975-aa90-89de62f421b0
select id, user_id, symptoms, diagnosis, severity, medications, recommendations, created_at
from consultations
where user_id = $1::uuid
order by created_at desc, seq desc
limit case when $2::int < 0 then null else $2::int end;
`

const QSelectConsultation = `--sql 282991b7-8a8c-450a-8d43-401b1dffc366
select id, user_id, symptoms, diagnosis, severity, medications, recommendations, created_at
from consultations
where user_id = $1::uuid
  and id = $2::uuid
limit 1;
`

// QLockUserLedger serializes ledger writes for one user until the
// surrounding transaction ends.
const QLockUserLedger = `--sql 2411c4e8-7621-4882-bccb-0882a0f79cb0
select pg_advisory_xact_lock(hashtext($1::text));
`
