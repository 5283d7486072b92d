package commands_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"todo/internal/backend/jsonfile"
	"todo/internal/backend/sqlite"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasklist"
	"todo/internal/testutil"
)

type result struct {
	stdout, stderr, logs string
	code                 int
}

// runCommand is a helper to run a command against a store with scripted stdin.
func runCommand(t *testing.T, cmd commands.Command, svc service.Service, args []string, stdin string, quiet bool) result {
	t.Helper()

	cfg := &config.Config{
		Dir:     t.TempDir(),
		Backend: config.BackendJSON,
		Quiet:   quiet,
	}
	return runCommandWithConfig(t, cmd, cfg, svc, args, stdin)
}

func runCommandWithConfig(t *testing.T, cmd commands.Command, cfg *config.Config, svc service.Service, args []string, stdin string) result {
	t.Helper()

	var outBuf, errBuf, logBuf bytes.Buffer
	logger := log.NewWithOptions(&logBuf, log.Options{Level: log.DebugLevel})
	ctx := log.WithContext(context.Background(), logger)

	code := cmd.Run(ctx, cfg, svc, args, strings.NewReader(stdin), &outBuf, &errBuf)
	return result{stdout: outBuf.String(), stderr: errBuf.String(), logs: logBuf.String(), code: code}
}

func fourTasks() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask("A", tasklist.StatusIncomplete, 1)
	svc.AddTask("B", tasklist.StatusIncomplete, 2)
	svc.AddTask("C", tasklist.StatusIncomplete, 3)
	svc.AddTask("D", tasklist.StatusIncomplete, 4)
	return svc
}

func storedNames(svc *testutil.FakeService) string {
	var names []string
	for _, task := range svc.Tasks() {
		names = append(names, task.Name)
	}
	return strings.Join(names, ",")
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	res := runCommand(t, &commands.VersionCmd{}, nil, nil, "", false)

	if res.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, res.code)
	}
	if res.stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", res.stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	res := runCommand(t, &commands.HelpCmd{}, nil, nil, "", false)

	if res.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, res.code)
	}
	if res.stderr != "" {
		t.Errorf("expected no stderr, got %q", res.stderr)
	}
	for _, want := range []string{"Usage:", "todo add [--priority <n>] <name...> (flags first)", "todo rm <position...>", "--backend"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", tasklist.StatusIncomplete, 1)
	svc.AddTask("Buy eggs", tasklist.StatusComplete, 4)

	res := runCommand(t, &commands.ListCmd{}, svc, nil, "", false)

	if res.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, res.code)
	}
	expected := "1: Buy milk, 1 - Incomplete\n2: Buy eggs, 4 - Complete\n"
	if res.stdout != expected {
		t.Errorf("expected %q, got %q", expected, res.stdout)
	}
	if svc.Saves() != 0 {
		t.Errorf("list must not save, got %d saves", svc.Saves())
	}
}

func TestListCommand_Empty(t *testing.T) {
	res := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, "", false)

	if res.stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", res.stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	res := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, "", true)

	if res.stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", res.stdout)
	}
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	res := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), []string{"work"}, "", false)

	if res.code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, res.code)
	}
	if res.stderr != "error: unexpected argument: work\n" {
		t.Errorf("unexpected stderr %q", res.stderr)
	}
}

func TestListCommand_LoadError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoadErr = &service.CorruptError{Path: "/x/tasks.json", Err: errors.New("bad json")}

	res := runCommand(t, &commands.ListCmd{}, svc, nil, "", false)

	if res.code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, res.code)
	}
	if !strings.HasPrefix(res.stderr, "error: cannot read task file: ") {
		t.Errorf("unexpected stderr %q", res.stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Existing", tasklist.StatusIncomplete, 5)

	cmd := &commands.AddCmd{}
	cmd.SetPriority(2)
	res := runCommand(t, cmd, svc, []string{"Buy", "groceries"}, "", false)

	if res.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, res.code)
	}
	if res.stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", res.stdout)
	}

	tasks := svc.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Name != "Buy groceries" || tasks[0].Priority != 2 || tasks[0].Status != tasklist.StatusIncomplete {
		t.Errorf("expected new task sorted first, got %+v", tasks[0])
	}
	if tasks[0].ID == "" {
		t.Error("expected new task to get an ID")
	}
}

func TestAddCommand_EmptyName(t *testing.T) {
	svc := testutil.NewFakeService()

	res := runCommand(t, &commands.AddCmd{}, svc, nil, "", false)

	if res.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, res.code)
	}
	if tasks := svc.Tasks(); len(tasks) != 1 || tasks[0].Name != "" {
		t.Errorf("expected one unnamed task, got %+v", tasks)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	res := runCommand(t, &commands.AddCmd{}, testutil.NewFakeService(), []string{"Buy", "milk"}, "", true)

	if res.stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", res.stdout)
	}
}

func TestAddCommand_FlagAfterName(t *testing.T) {
	svc := testutil.NewFakeService()

	res := runCommand(t, &commands.AddCmd{}, svc, []string{"buy", "milk", "-p", "3"}, "", false)

	if res.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, res.code)
	}
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].Name != "buy milk -p 3" || tasks[0].Priority != 0 {
		t.Errorf("unexpected tasks %+v", tasks)
	}
	if !strings.Contains(res.logs, "flag after task name is part of the name") {
		t.Errorf("expected warning in logs, got %q", res.logs)
	}
}

func TestAddCommand_SaveError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SaveErr = errors.New("disk full")

	res := runCommand(t, &commands.AddCmd{}, svc, []string{"x"}, "", false)

	if res.code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, res.code)
	}
	if res.stderr != "error: store error: disk full\n" {
		t.Errorf("unexpected stderr %q", res.stderr)
	}
	if res.stdout != "" {
		t.Errorf("expected no stdout, got %q", res.stdout)
	}
}

// Tests for done command
func TestDoneCommand_Success(t *testing.T) {
	svc := fourTasks()

	res := runCommand(t, &commands.DoneCmd{}, svc, []string{"1", "x", "3", "9"}, "", false)

	if res.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, res.code)
	}
	if res.stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", res.stdout)
	}
	var statuses []string
	for _, task := range svc.Tasks() {
		statuses = append(statuses, string(task.Status))
	}
	expected := "Complete,Incomplete,Complete,Incomplete"
	if got := strings.Join(statuses, ","); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestDoneCommand_NoPositions(t *testing.T) {
	svc := fourTasks()

	res := runCommand(t, &commands.DoneCmd{}, svc, []string{"first"}, "", false)

	if res.code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, res.code)
	}
	if res.stderr != "error: task position required\n" {
		t.Errorf("unexpected stderr %q", res.stderr)
	}
	if svc.Saves() != 0 {
		t.Error("nothing should be saved")
	}
}

// Tests for rm command
func TestRmCommand_ShiftingPositions(t *testing.T) {
	for _, args := range [][]string{{"2", "4"}, {"4", "2"}, {"4 2"}} {
		svc := fourTasks()

		res := runCommand(t, &commands.RmCmd{}, svc, args, "", false)

		if res.code != exitcode.Success {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.Success, res.code)
		}
		if got := storedNames(svc); got != "A,C" {
			t.Errorf("%v: expected A,C, got %s", args, got)
		}
	}
}

func TestRmCommand_Deduplicates(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("A", tasklist.StatusIncomplete, 1)
	svc.AddTask("B", tasklist.StatusIncomplete, 2)
	svc.AddTask("C", tasklist.StatusIncomplete, 3)

	runCommand(t, &commands.RmCmd{}, svc, []string{"2", "2", "2"}, "", false)

	if got := storedNames(svc); got != "A,C" {
		t.Errorf("expected A,C, got %s", got)
	}
}

func TestRmCommand_OutOfRange(t *testing.T) {
	svc := fourTasks()

	res := runCommand(t, &commands.RmCmd{}, svc, []string{"0", "5"}, "", false)

	if res.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, res.code)
	}
	if got := storedNames(svc); got != "A,B,C,D" {
		t.Errorf("expected list unchanged, got %s", got)
	}
}

func TestRmCommand_NoArgs(t *testing.T) {
	res := runCommand(t, &commands.RmCmd{}, fourTasks(), nil, "", false)

	if res.code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, res.code)
	}
}

// Tests for shell command
func TestShellCommand_SavesOnExit(t *testing.T) {
	svc := testutil.NewFakeService()

	res := runCommand(t, &commands.ShellCmd{}, svc, nil, "A\nBuy milk\n3\nE\n", false)

	if res.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, res.code)
	}
	if svc.Saves() != 1 {
		t.Errorf("expected exactly one save, got %d", svc.Saves())
	}
	if got := storedNames(svc); got != "Buy milk" {
		t.Errorf("expected saved task, got %q", got)
	}
}

func TestShellCommand_SavesOnEndOfInput(t *testing.T) {
	svc := fourTasks()

	runCommand(t, &commands.ShellCmd{}, svc, nil, "D\n1\n", false)

	if svc.Saves() != 1 {
		t.Errorf("expected exactly one save, got %d", svc.Saves())
	}
	if got := storedNames(svc); got != "B,C,D" {
		t.Errorf("expected B,C,D, got %s", got)
	}
}

func TestShellCommand_SaveFailureIsReported(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SaveErr = errors.New("read-only file system")

	res := runCommand(t, &commands.ShellCmd{}, svc, nil, "E\n", false)

	if res.code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, res.code)
	}
	if res.stderr != "error: store error: read-only file system\n" {
		t.Errorf("unexpected stderr %q", res.stderr)
	}
}

func TestShellCommand_LoadError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoadErr = errors.New("permission denied")

	res := runCommand(t, &commands.ShellCmd{}, svc, nil, "E\n", false)

	if res.code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, res.code)
	}
	if res.stdout != "" {
		t.Errorf("shell must not start, got %q", res.stdout)
	}
	if svc.Saves() != 0 {
		t.Error("nothing should be saved")
	}
}

func TestShellCommand_CorruptFileFallsBackToEmpty(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendJSON}
	if err := os.WriteFile(cfg.DataPath(), []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	store, err := jsonfile.New(cfg.DataPath())
	if err != nil {
		t.Fatal(err)
	}

	res := runCommandWithConfig(t, &commands.ShellCmd{}, cfg, store, nil, "A\nfresh\n1\nE\n")

	if res.code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, res.code, res.stderr)
	}
	if !strings.Contains(res.logs, "task file is unreadable") {
		t.Errorf("expected corrupt warning in logs, got %q", res.logs)
	}

	kept, err := os.ReadFile(cfg.QuarantinePath())
	if err != nil {
		t.Fatalf("expected corrupt file to be kept: %v", err)
	}
	if string(kept) != "garbage" {
		t.Errorf("unexpected quarantined content %q", kept)
	}

	list, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("expected fresh file to load: %v", err)
	}
	if task, ok := list.At(1); !ok || task.Name != "fresh" || list.Len() != 1 {
		t.Errorf("unexpected saved tasks %+v", list.Tasks())
	}
}

func TestShellCommand_CorruptDatabaseFallsBackToEmpty(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendSQLite}
	db, err := sql.Open("sqlite3", cfg.DataPath())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE tasks (position INTEGER PRIMARY KEY, id TEXT, name TEXT, status TEXT, priority INTEGER)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO tasks VALUES (1, 'a', 'old', 'Bogus', 1)`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	store := sqlite.New(cfg.DataPath())
	t.Cleanup(func() { store.Close() })

	res := runCommandWithConfig(t, &commands.ShellCmd{}, cfg, store, nil, "A\nnew\n3\nE\n")

	if res.code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, res.code, res.stderr)
	}
	if _, err := os.Stat(cfg.QuarantinePath()); err != nil {
		t.Errorf("expected corrupt database to be kept: %v", err)
	}

	reopened := sqlite.New(cfg.DataPath())
	defer reopened.Close()
	list, err := reopened.Load(context.Background())
	if err != nil {
		t.Fatalf("expected fresh database to load: %v", err)
	}
	if task, ok := list.At(1); !ok || task.Name != "new" || list.Len() != 1 {
		t.Errorf("unexpected saved tasks %+v", list.Tasks())
	}
}

func TestShellCommand_CorruptFileCannotBeMoved(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendJSON, DataFile: filepath.Join("missing", "tasks.json")}
	svc := testutil.NewFakeService()
	svc.LoadErr = &service.CorruptError{Path: cfg.DataPath(), Err: errors.New("bad")}

	res := runCommandWithConfig(t, &commands.ShellCmd{}, cfg, svc, nil, "E\n")

	if res.code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, res.code)
	}
	if svc.Saves() != 0 {
		t.Error("nothing should be saved")
	}
}

func TestShellCommand_UnexpectedArgument(t *testing.T) {
	res := runCommand(t, &commands.ShellCmd{}, testutil.NewFakeService(), []string{"now"}, "", false)

	if res.code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, res.code)
	}
}
