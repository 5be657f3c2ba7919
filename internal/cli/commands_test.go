package cli

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habithub/internal/habits"
	"github.com/julianstephens/habithub/internal/models"
)

func addTestHabit(t *testing.T, ctx *Context, name string) {
	t.Helper()
	cmd := &HabitAddCmd{Name: name, Target: 30, Frequency: "daily"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("failed to add habit %q: %v", name, err)
	}
}

func TestHabitAddRejectsDuplicateName(t *testing.T) {
	ctx, _ := setupTestContext(t)
	addTestHabit(t, ctx, "Read")

	cmd := &HabitAddCmd{Name: " read ", Target: 30, Frequency: "daily"}
	err := cmd.Run(ctx)
	if !errors.Is(err, habits.ErrDuplicateName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestHabitEditRejectsDuplicateName(t *testing.T) {
	ctx, _ := setupTestContext(t)
	addTestHabit(t, ctx, "Read")
	addTestHabit(t, ctx, "Stretch")

	err := (&HabitEditCmd{Habit: "Stretch", Name: "READ"}).Run(ctx)
	if !errors.Is(err, habits.ErrDuplicateName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}

	// renaming a habit to a different casing of its own name is allowed
	if err := (&HabitEditCmd{Habit: "Stretch", Name: "stretch"}).Run(ctx); err != nil {
		t.Fatalf("self rename failed: %v", err)
	}
}

func TestHabitAddFromTemplate(t *testing.T) {
	ctx, out := setupTestContext(t)

	cmd := &HabitAddCmd{Template: "Call Family"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("failed to add from template: %v", err)
	}
	if !strings.Contains(out.String(), "Call Family") {
		t.Errorf("expected confirmation for template habit, got %q", out.String())
	}

	h, err := ctx.findHabit("Call Family")
	if err != nil {
		t.Fatalf("template habit not stored: %v", err)
	}
	if h.Frequency != "weekly" {
		t.Errorf("expected weekly frequency from template, got %q", h.Frequency)
	}
}

func TestHabitAddTemplateExplicitFlags(t *testing.T) {
	ctx, _ := setupTestContext(t)
	tmpl, ok := models.FindTemplate("Call Family")
	if !ok {
		t.Fatal("template missing from catalog")
	}

	cmd := &HabitAddCmd{Template: "Call Family", Target: 30, Frequency: "daily"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("failed to add from template: %v", err)
	}
	h, err := ctx.findHabit("Call Family")
	if err != nil {
		t.Fatalf("template habit not stored: %v", err)
	}
	if h.TargetDays != 30 {
		t.Errorf("expected explicit target 30 over template's %d, got %d", tmpl.TargetDays, h.TargetDays)
	}
	if h.Frequency != models.FrequencyDaily {
		t.Errorf("expected explicit daily frequency, got %q", h.Frequency)
	}
}

func TestHabitEditClearsFields(t *testing.T) {
	ctx, _ := setupTestContext(t)
	add := &HabitAddCmd{Name: "Read", Category: "Learning", Icon: "book", Color: "#FF8800", Notes: "20 pages", Reminder: "21:00"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	if err := (&HabitEditCmd{Habit: "Read", Notes: "30 pages"}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	h, err := ctx.findHabit("Read")
	if err != nil {
		t.Fatalf("failed to find habit: %v", err)
	}
	if h.Notes != "30 pages" || h.Category != "Learning" {
		t.Errorf("unexpected habit after partial edit: %+v", h)
	}

	edit := &HabitEditCmd{Habit: "Read", Category: "none", Icon: "none", Color: "none", Notes: "none", Reminder: "none"}
	if err := edit.Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	h, err = ctx.findHabit("Read")
	if err != nil {
		t.Fatalf("failed to find habit: %v", err)
	}
	if h.Category != "" || h.Icon != "" || h.Color != "" || h.Notes != "" || h.ReminderTime != "" {
		t.Errorf("expected cleared fields, got %+v", h)
	}
}

func TestHabitShowAge(t *testing.T) {
	ctx, out := setupTestContext(t)
	addTestHabit(t, ctx, "Read")
	h, err := ctx.findHabit("Read")
	if err != nil {
		t.Fatalf("failed to find habit: %v", err)
	}

	ctx.Clock = func() time.Time { return h.CreatedAt.Add(72 * time.Hour) }
	out.Reset()
	if err := (&HabitShowCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !regexp.MustCompile(`Age\S*\s+3 days`).MatchString(out.String()) {
		t.Errorf("expected age of 3 days, got %q", out.String())
	}

	ctx.Clock = func() time.Time { return h.CreatedAt }
	out.Reset()
	if err := (&HabitShowCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !regexp.MustCompile(`Age\S*\s+0 days`).MatchString(out.String()) {
		t.Errorf("expected age of 0 days, got %q", out.String())
	}
}

func TestTodayToggle(t *testing.T) {
	ctx, out := setupTestContext(t)
	addTestHabit(t, ctx, "Read")
	addTestHabit(t, ctx, "Stretch")
	out.Reset()

	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("today failed: %v", err)
	}
	if !strings.Contains(out.String(), "0/2 completed") {
		t.Errorf("expected 0/2 completed, got %q", out.String())
	}

	out.Reset()
	if err := (&TodayCmd{Toggle: "read"}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(out.String(), "marked complete") {
		t.Errorf("expected success feedback, got %q", out.String())
	}
	if !strings.Contains(out.String(), "1/2 completed") {
		t.Errorf("expected 1/2 completed, got %q", out.String())
	}

	if err := (&TodayCmd{Toggle: "Nope"}).Run(ctx); err == nil {
		t.Error("expected error toggling unknown habit")
	}
}

func TestHabitDeleteConfirmation(t *testing.T) {
	ctx, out := setupTestContext(t)
	addTestHabit(t, ctx, "Read")

	ctx.In = strings.NewReader("n\n")
	if err := (&HabitDeleteCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Delete cancelled.") {
		t.Errorf("expected cancellation, got %q", out.String())
	}
	if _, err := ctx.findHabit("Read"); err != nil {
		t.Fatalf("habit should survive a cancelled delete: %v", err)
	}

	ctx.In = strings.NewReader("y\n")
	if err := (&HabitDeleteCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.findHabit("Read"); err == nil {
		t.Fatal("habit should be deleted")
	}
}

func TestHabitListFilters(t *testing.T) {
	ctx, out := setupTestContext(t)
	addTestHabit(t, ctx, "Read")
	if err := (&HabitAddCmd{Name: "Meditate", Target: 10, Inactive: true, Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("failed to add inactive habit: %v", err)
	}
	out.Reset()

	if err := (&HabitListCmd{Status: "active"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Read") || strings.Contains(out.String(), "Meditate") {
		t.Errorf("active filter returned wrong habits: %q", out.String())
	}

	out.Reset()
	if err := (&HabitListCmd{Status: "all", Search: "medi"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Meditate") || strings.Contains(out.String(), "Read") {
		t.Errorf("search returned wrong habits: %q", out.String())
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx, out := setupTestContext(t)
	addTestHabit(t, ctx, "Read")
	if err := (&TodayCmd{Toggle: "Read"}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "export.json.zst")
	if err := (&ExportCmd{Out: path}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	other, otherOut := setupTestContext(t)
	if err := (&ImportCmd{File: path}).Run(other); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(otherOut.String(), "Imported 1 habits and 1 logs") {
		t.Errorf("unexpected import summary: %q", otherOut.String())
	}

	out.Reset()
	if err := (&ExportCmd{Format: "csv"}).Run(ctx); err != nil {
		t.Fatalf("csv export failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Habit Name,") {
		t.Errorf("expected csv header, got %q", out.String())
	}
}

func TestValidateCmdReportsClean(t *testing.T) {
	ctx, out := setupTestContext(t)
	addTestHabit(t, ctx, "Read")

	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out.String(), "Validating 1 habits") {
		t.Errorf("unexpected validate output: %q", out.String())
	}
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx, out := setupTestContext(t)
	addTestHabit(t, ctx, "Read")
	out.Reset()

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if !strings.Contains(out.String(), "Backup created: habithub-") {
		t.Errorf("unexpected create output: %q", out.String())
	}

	backups, err := ctx.Backups.ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d (err %v)", len(backups), err)
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), filepath.Base(backups[0].Path)) {
		t.Errorf("list output is missing the backup: %q", out.String())
	}

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restored 1 habits") {
		t.Errorf("unexpected restore output: %q", out.String())
	}

	all, err := ctx.Store.GetAllHabits(false)
	if err != nil {
		t.Fatalf("failed to load habits: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("restore should insert a second copy, got %d habits", len(all))
	}
}

func TestDoctorCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addTestHabit(t, ctx, "Read")
	out.Reset()

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out.String())
	}
	for _, want := range []string{"Database reachable: OK", "Schema version: OK", "Backups present: WARNING", "All diagnostics passed!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output, got %q", want, out.String())
		}
	}
}

func TestDoctorCmdClosedDatabase(t *testing.T) {
	ctx, out := setupTestContext(t)
	g, ok := ctx.Store.(dbGetter)
	if !ok {
		t.Fatal("sqlite store should expose its connection")
	}
	// Load keeps an existing handle, so a closed one is only caught by the ping.
	if err := g.GetDB().Close(); err != nil {
		t.Fatalf("failed to close db: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail on a closed database")
	}
	if !strings.Contains(out.String(), "failed to ping database") {
		t.Errorf("expected ping failure, got %q", out.String())
	}
}
