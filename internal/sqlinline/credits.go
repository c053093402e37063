package sqlinline

const QSelectCredits = `--sql 9afc390a-132d-49e5-bc33-fd4f338cd663
select credits
from user_credits
where user_id = $1::uuid
limit 1;
`

// QDeductCredits only succeeds when the balance still equals the value read
// moments ago; callers must check the affected-row count and retry on zero.
const QDeductCredits = `--sql b8de2aad-5558-4662-acd7-1cce43b566b0
update user_credits
set credits    = credits - $3::int,
    updated_at = now()
where user_id = $1::uuid
  and credits = $2::int;
`

const QInsertCreditTransaction = `--sql eaada82e-4a60-4b67-9db4-6ab3b9fd04af
insert into credit_transactions(id, user_id, delta, reason, properties, created_at)
values ($1::uuid, $2::uuid, $3::int, $4::text, coalesce($5::jsonb, '{}'::jsonb), now());
`
