package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/granthours/internal/domain"
	"github.com/alexanderramin/granthours/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBasics(t *testing.T, env *testEnv) (*domain.StaffMember, *domain.Student) {
	t.Helper()
	ctx := context.Background()

	actor := testutil.NewTestStaff("Dana Reyes")
	require.NoError(t, env.staff.Create(ctx, actor))

	student := testutil.NewTestStudent("Sam Park")
	require.NoError(t, env.students.Create(ctx, student))

	require.NoError(t, env.activities.Upsert(ctx, testutil.NewTestActivity("INSTR",
		testutil.WithLabel("Direct Instruction"))))
	require.NoError(t, env.activities.Upsert(ctx, testutil.NewTestActivity("DUTY",
		testutil.WithLabel("Hall Duty"), testutil.WithFunding("OOG"))))
	require.NoError(t, env.activities.Upsert(ctx, testutil.NewTestActivity("LUNCH",
		testutil.NotAllowable())))

	return actor, student
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	env := setupEnv(t)
	svc := env.newEntryService(ValidationConfig{})

	res, err := svc.Validate(context.Background(), &domain.WorklogEntry{})
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, "Actor is required.")
	assert.Contains(t, res.Errors, "Entry date is required.")
	assert.Contains(t, res.Errors, "Minutes must be between 1 and 1440.")
	assert.Contains(t, res.Errors, "Activity code is required.")
	assert.GreaterOrEqual(t, len(res.Errors), 4, "all defects must be reported at once")
}

func TestValidate_MinutesOutOfRange(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	svc := env.newEntryService(ValidationConfig{})

	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 1441, "INSTR")
	res, err := svc.Validate(context.Background(), e)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, "Minutes must be between 1 and 1440.")
}

func TestValidate_UnknownActivityCode(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	svc := env.newEntryService(ValidationConfig{})

	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 30, "ZZZ")
	res, err := svc.Validate(context.Background(), e)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, "Unknown activity code.")
}

func TestValidate_InactiveActorRejected(t *testing.T) {
	env := setupEnv(t)
	seedBasics(t, env)
	ctx := context.Background()

	inactive := testutil.NewTestStaff("Gone Person", testutil.WithInactiveStaff())
	require.NoError(t, env.staff.Create(ctx, inactive))

	svc := env.newEntryService(ValidationConfig{})
	e := testutil.NewTestEntry(inactive.ID, testutil.Day("2024-03-01"), 30, "INSTR")
	res, err := svc.Validate(ctx, e)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, "Actor is not an active staff member.")
}

func TestValidate_UnknownActorRejected(t *testing.T) {
	env := setupEnv(t)
	seedBasics(t, env)
	svc := env.newEntryService(ValidationConfig{})

	e := testutil.NewTestEntry("no-such-actor", testutil.Day("2024-03-01"), 30, "INSTR")
	res, err := svc.Validate(context.Background(), e)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, "Actor is not a known staff member.")
}

func TestValidate_DisallowedActivityBlocked(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	svc := env.newEntryService(ValidationConfig{})

	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 30, "LUNCH")
	res, err := svc.Validate(context.Background(), e)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, `Activity "LUNCH" is not allowable for logging.`)
}

func TestValidate_RoleRestriction(t *testing.T) {
	env := setupEnv(t)
	seedBasics(t, env)
	ctx := context.Background()

	aide := testutil.NewTestStaff("Aide Person", testutil.WithRole("aide"))
	require.NoError(t, env.staff.Create(ctx, aide))

	svc := env.newEntryService(ValidationConfig{
		RoleActivities: map[string][]string{"aide": {"DUTY"}},
	})

	blocked := testutil.NewTestEntry(aide.ID, testutil.Day("2024-03-01"), 30, "INSTR")
	res, err := svc.Validate(ctx, blocked)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, `Role "aide" may not log activity "INSTR".`)

	allowed := testutil.NewTestEntry(aide.ID, testutil.Day("2024-03-01"), 30, "DUTY")
	res, err = svc.Validate(ctx, allowed)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
}

func TestValidate_UnmappedRoleIsUnrestricted(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env) // role "teacher", not in the map
	svc := env.newEntryService(ValidationConfig{
		RoleActivities: map[string][]string{"aide": {"DUTY"}},
	})

	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 30, "INSTR")
	res, err := svc.Validate(context.Background(), e)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
}

func TestValidate_CatalogDisallowOverridesRoleGrant(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	svc := env.newEntryService(ValidationConfig{
		RoleActivities: map[string][]string{"teacher": {"LUNCH"}},
	})

	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 30, "LUNCH")
	res, err := svc.Validate(context.Background(), e)
	require.NoError(t, err)

	assert.False(t, res.Accepted, "allowable=false wins over a role grant")
}

func TestValidate_SubjectChecks(t *testing.T) {
	env := setupEnv(t)
	actor, student := seedBasics(t, env)
	ctx := context.Background()
	svc := env.newEntryService(ValidationConfig{})
	d := testutil.Day("2024-03-01")

	// Unknown student.
	e := testutil.NewTestEntry(actor.ID, d, 30, "INSTR", testutil.WithStudent("ghost"))
	res, err := svc.Validate(ctx, e)
	require.NoError(t, err)
	assert.Contains(t, res.Errors, "Unknown student.")

	// Known student but no caseload assignment.
	e = testutil.NewTestEntry(actor.ID, d, 30, "INSTR", testutil.WithStudent(student.ID))
	res, err = svc.Validate(ctx, e)
	require.NoError(t, err)
	assert.Contains(t, res.Errors, "Student is not on the actor's caseload for the entry date.")

	// With a covering assignment the entry passes.
	require.NoError(t, env.caseloads.Create(ctx,
		testutil.NewTestAssignment(actor.ID, student.ID, testutil.Day("2024-01-01"))))
	res, err = svc.Validate(ctx, e)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
}

func TestValidate_InactiveStudentRejected(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	ctx := context.Background()

	dropped := testutil.NewTestStudent("Dropped Kid", testutil.WithInactiveStudent())
	require.NoError(t, env.students.Create(ctx, dropped))
	require.NoError(t, env.caseloads.Create(ctx,
		testutil.NewTestAssignment(actor.ID, dropped.ID, testutil.Day("2024-01-01"))))

	svc := env.newEntryService(ValidationConfig{})
	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 30, "INSTR",
		testutil.WithStudent(dropped.ID))
	res, err := svc.Validate(ctx, e)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, "Student is not active.")
}

func TestValidate_BuildingMismatchBlocks(t *testing.T) {
	env := setupEnv(t)
	seedBasics(t, env)
	ctx := context.Background()

	actor := testutil.NewTestStaff("North Teacher", testutil.WithBuilding("North"))
	require.NoError(t, env.staff.Create(ctx, actor))
	south := testutil.NewTestStudent("South Kid", testutil.WithStudentBuilding("South"))
	require.NoError(t, env.students.Create(ctx, south))
	require.NoError(t, env.caseloads.Create(ctx,
		testutil.NewTestAssignment(actor.ID, south.ID, testutil.Day("2024-01-01"))))

	svc := env.newEntryService(ValidationConfig{})
	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 30, "INSTR",
		testutil.WithStudent(south.ID))
	res, err := svc.Validate(ctx, e)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, `Actor building "North" does not match student building "South".`)
}

func TestValidate_CaseloadEffectiveDatingBoundary(t *testing.T) {
	env := setupEnv(t)
	actor, student := seedBasics(t, env)
	ctx := context.Background()

	d := testutil.Day("2024-03-15")
	require.NoError(t, env.caseloads.Create(ctx,
		testutil.NewTestAssignment(actor.ID, student.ID, d, testutil.WithEndDate(d))))

	svc := env.newEntryService(ValidationConfig{MaxFutureDays: 100000})

	cases := []struct {
		date time.Time
		want bool
	}{
		{d.AddDate(0, 0, -1), false},
		{d, true},
		{d.AddDate(0, 0, 1), false},
	}
	for _, tc := range cases {
		e := testutil.NewTestEntry(actor.ID, tc.date, 30, "INSTR", testutil.WithStudent(student.ID))
		res, err := svc.Validate(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Accepted, "date %s", tc.date.Format(time.DateOnly))
	}
}

func TestValidate_FutureDateLimit(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	svc := env.newEntryService(ValidationConfig{}) // default 7 days
	ctx := context.Background()

	today := time.Now().UTC().Truncate(24 * time.Hour)

	ok := testutil.NewTestEntry(actor.ID, today.AddDate(0, 0, 7), 30, "INSTR")
	res, err := svc.Validate(ctx, ok)
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	tooFar := testutil.NewTestEntry(actor.ID, today.AddDate(0, 0, 8), 30, "INSTR")
	res, err = svc.Validate(ctx, tooFar)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, "Entry date is more than 7 days in the future.")
}

func TestValidate_OverlapRejectsEitherOrder(t *testing.T) {
	d := testutil.Day("2024-03-01")

	// A persisted first, B as candidate.
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	ctx := context.Background()
	svc := env.newEntryService(ValidationConfig{})

	first := testutil.NewTestEntry(actor.ID, d, 60, "INSTR", testutil.WithStartMinute(9*60))
	require.NoError(t, env.entries.Append(ctx, first))

	candidate := testutil.NewTestEntry(actor.ID, d, 30, "INSTR", testutil.WithStartMinute(9*60+30))
	res, err := svc.Validate(ctx, candidate)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Overlaps existing entry")

	// Swapped order gives the same verdict.
	env2 := setupEnv(t)
	actor2, _ := seedBasics(t, env2)
	svc2 := env2.newEntryService(ValidationConfig{})

	firstSwapped := testutil.NewTestEntry(actor2.ID, d, 30, "INSTR", testutil.WithStartMinute(9*60+30))
	require.NoError(t, env2.entries.Append(ctx, firstSwapped))

	candidateSwapped := testutil.NewTestEntry(actor2.ID, d, 60, "INSTR", testutil.WithStartMinute(9*60))
	res, err = svc2.Validate(ctx, candidateSwapped)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Overlaps existing entry")
}

func TestValidate_OverlapFromNotesMarker(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	ctx := context.Background()
	svc := env.newEntryService(ValidationConfig{})
	d := testutil.Day("2024-03-01")

	first := testutil.NewTestEntry(actor.ID, d, 60, "INSTR", testutil.WithNotes("push-in @09:00"))
	require.NoError(t, env.entries.Append(ctx, first))

	candidate := testutil.NewTestEntry(actor.ID, d, 30, "INSTR", testutil.WithNotes("small group @09:45"))
	res, err := svc.Validate(ctx, candidate)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
}

func TestValidate_OverlapSkippedWithoutStartIsObservable(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	ctx := context.Background()
	svc := env.newEntryService(ValidationConfig{})
	d := testutil.Day("2024-03-01")

	first := testutil.NewTestEntry(actor.ID, d, 60, "INSTR", testutil.WithStartMinute(9*60))
	require.NoError(t, env.entries.Append(ctx, first))

	// Candidate has no derivable start: accepted, but the skip is surfaced.
	candidate := testutil.NewTestEntry(actor.ID, d, 30, "INSTR")
	res, err := svc.Validate(ctx, candidate)
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Contains(t, res.Warnings, "No start time derivable; overlap check skipped.")
	assert.Equal(t, 1, env.auditCount(t, "validation.overlap_skipped"))
}

func TestValidate_RejectionIsAudited(t *testing.T) {
	env := setupEnv(t)
	seedBasics(t, env)
	svc := env.newEntryService(ValidationConfig{})

	_, err := svc.Validate(context.Background(), &domain.WorklogEntry{})
	require.NoError(t, err)
	assert.Equal(t, 1, env.auditCount(t, "validation.rejected"))
}

func TestValidate_BackingStoreFaultIsAuditedDistinctly(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	svc := env.newEntryService(ValidationConfig{})

	// A broken staff table is a malfunction, not bad user data.
	_, err := env.db.Exec(`DROP TABLE staff`)
	require.NoError(t, err)

	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 30, "INSTR")
	res, err := svc.Validate(context.Background(), e)
	require.Error(t, err)
	assert.Nil(t, res)

	assert.Equal(t, 1, env.auditCount(t, "validation.internal_error"))
	assert.Equal(t, 0, env.auditCount(t, "validation.rejected"),
		"a malfunction must not be recorded as a user rejection")
}

func TestLog_PersistsAcceptedEntry(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	ctx := context.Background()
	svc := env.newEntryService(ValidationConfig{})

	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 30, "INSTR")
	res, err := svc.Log(ctx, e)
	require.NoError(t, err)
	require.True(t, res.Accepted)

	stored, err := env.entries.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.Minutes)
	assert.Equal(t, "INSTR", stored.ActivityCode)
	assert.Equal(t, 1, env.auditCount(t, "entry.logged"))
}

func TestLog_RejectedEntryIsNotPersisted(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	ctx := context.Background()
	svc := env.newEntryService(ValidationConfig{})

	e := testutil.NewTestEntry(actor.ID, testutil.Day("2024-03-01"), 30, "ZZZ")
	res, err := svc.Log(ctx, e)
	require.NoError(t, err)
	require.False(t, res.Accepted)

	_, err = env.entries.GetByID(ctx, e.ID)
	assert.Error(t, err, "rejected entries must never reach the store")
	assert.Equal(t, 0, env.auditCount(t, "entry.logged"))
}

func TestLogAdjustment_RequiresClosedWeek(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	ctx := context.Background()
	entrySvc := env.newEntryService(ValidationConfig{})

	e := testutil.NewTestEntry(actor.ID, time.Time{}, 30, "INSTR")
	_, err := entrySvc.LogAdjustment(ctx, e, testutil.Day("2024-03-08"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no closed report")
}

func TestLogAdjustment_FlagsAndReferencesWeek(t *testing.T) {
	env := setupEnv(t)
	actor, _ := seedBasics(t, env)
	ctx := context.Background()
	entrySvc := env.newEntryService(ValidationConfig{})
	reportSvc := env.newReportService(ReportConfig{})

	_, err := reportSvc.CloseWeek(ctx, "2024-03-08")
	require.NoError(t, err)

	e := testutil.NewTestEntry(actor.ID, time.Time{}, 45, "INSTR")
	res, err := entrySvc.LogAdjustment(ctx, e, testutil.Day("2024-03-08"))
	require.NoError(t, err)
	require.True(t, res.Accepted)

	stored, err := env.entries.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, stored.Adjustment)
	require.NotNil(t, stored.AdjustsWeek)
	assert.Equal(t, "2024-03-08", stored.AdjustsWeek.Format(time.DateOnly))
	assert.Equal(t, 1, env.auditCount(t, "entry.adjustment"))
}
