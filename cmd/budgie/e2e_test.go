package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type harness struct {
	t       *testing.T
	dir     string
	dataDir string
	cfgFile string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		t:       t,
		dir:     dir,
		dataDir: filepath.Join(dir, "data"),
		cfgFile: filepath.Join(dir, "config.yaml"),
	}
	cfg := "data:\n  dir: " + h.dataDir + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(h.cfgFile, []byte(cfg), 0o600))
	return h
}

// run executes one budgie invocation and returns its standard output.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", h.cfgFile}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, "budgie %s", strings.Join(args, " "))
	return out
}

var recordedID = regexp.MustCompile(`\[([0-9a-f-]{8})\]`)

func TestInitAndCategories(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("init")
	assert.Contains(t, out, "Data directory ready: "+h.dataDir)
	assert.Contains(t, out, "Created 10 default categories")

	out = h.mustRun("init")
	assert.Contains(t, out, "Categories already exist")

	out = h.mustRun("categories", "list", "--kind", "expense")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "$1,500.00")
	assert.NotContains(t, out, "Salary")

	out = h.mustRun("categories", "add", "Pets", "--limit", "200", "--description", "Vet and food")
	assert.Contains(t, out, `Created expense category "Pets"`)

	_, err := h.run("", "categories", "add", "Pets")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	out = h.mustRun("categories", "edit", "Pets", "--name", "Animals", "--clear-limit")
	assert.Contains(t, out, "Updated Animals [expense]")

	_, err = h.run("", "categories", "edit", "Animals")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify")

	out, err = h.run("n\n", "categories", "delete", "Animals")
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion cancelled.")

	out, err = h.run("y\n", "categories", "delete", "Animals")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted category "Animals"`)

	out = h.mustRun("categories", "list")
	assert.NotContains(t, out, "Animals")
}

func TestEntriesReportsAndAlerts(t *testing.T) {
	h := newHarness(t)
	h.mustRun("init")

	out := h.mustRun("expense", "add", "--amount", "1600", "-c", "Food", "-d", "Laptop", "--date", "02/12/2024")
	assert.Contains(t, out, "Recorded expense $1,600.00 on 02/12/2024 (Laptop)")
	assert.Contains(t, out, "high_value")
	assert.Contains(t, out, "limit_exceeded")
	assert.Contains(t, out, "budget_deficit")
	m := recordedID.FindStringSubmatch(out)
	require.Len(t, m, 2)
	laptopID := m[1]

	out = h.mustRun("income", "add", "--amount", "1000", "-c", "Salary", "-d", "Paycheck", "--date", "2024-12-01")
	assert.Contains(t, out, "Recorded income $1,000.00 on 01/12/2024 (Paycheck)")

	_, err := h.run("", "expense", "add", "--amount", "10", "-c", "Salary", "-d", "Wrong kind", "--date", "03/12/2024")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = h.run("", "expense", "add", "--amount", "10", "-c", "Food", "-d", "Bad date", "--date", "31/02/2024")
	require.Error(t, err)
	assert.Contains(t, common.UserMessage(err), "invalid date")

	out = h.mustRun("entries", "list", "-m", "12/2024")
	assert.Contains(t, out, laptopID)
	assert.Contains(t, out, "Paycheck")
	assert.Contains(t, out, "high_value")

	out = h.mustRun("entries", "list", "--kind", "income")
	assert.NotContains(t, out, "Laptop")

	out = h.mustRun("report", "month", "12/2024", "-o", "json")
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "1600", report["total_expense"])
	assert.Equal(t, "1000", report["total_income"])
	assert.Equal(t, "-600", report["balance"])
	assert.Equal(t, true, report["deficit"])
	assert.EqualValues(t, 2, report["entries"])

	out = h.mustRun("report", "month", "12/2024")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "exceeded")
	assert.Contains(t, out, "(deficit)")

	out = h.mustRun("report", "month", "06/2024")
	assert.Contains(t, out, "Nothing recorded for 06/2024")

	out = h.mustRun("report", "compare", "-o", "yaml")
	var compare struct {
		Cheapest *struct {
			Expense string `yaml:"expense"`
		} `yaml:"cheapest"`
		Months []struct {
			Deficit bool `yaml:"deficit"`
		} `yaml:"months"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &compare))
	require.Len(t, compare.Months, 1)
	assert.True(t, compare.Months[0].Deficit)
	require.NotNil(t, compare.Cheapest)
	assert.Equal(t, "1600", compare.Cheapest.Expense)

	_, err = h.run("", "report", "stats", "-o", "xml")
	require.Error(t, err)

	out = h.mustRun("report", "stats")
	assert.Contains(t, out, "Entries:    2 (1 income, 1 expense)")
	assert.Contains(t, out, "Alerts:     3 (3 unread)")

	out = h.mustRun("budget", "set-planned", "12/2024", "100")
	assert.Contains(t, out, "Planned income for 12/2024 set to $100.00")

	out = h.mustRun("budget", "review", "12/2024")
	assert.Contains(t, out, "2 new alert(s) for 12/2024")
	assert.Contains(t, out, "negative_balance")
	assert.Contains(t, out, "goal_missed")

	out = h.mustRun("budget", "review", "12/2024")
	assert.Contains(t, out, "No new issues for 12/2024")

	out = h.mustRun("alerts", "list", "--unread")
	assert.Contains(t, out, "budget_deficit")
	assert.Contains(t, out, "goal_missed")

	out = h.mustRun("alerts", "read", "--all")
	assert.Contains(t, out, "Marked 5 alert(s) read")

	out = h.mustRun("alerts", "list", "-u")
	assert.Contains(t, out, "No alerts.")

	out, err = h.run("n\n", "entries", "delete", laptopID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion cancelled.")

	_, err = h.run("", "categories", "delete", "Food", "--yes")
	assert.ErrorIs(t, err, common.ErrCategoryInUse)

	out = h.mustRun("entries", "delete", laptopID, "--yes")
	assert.Contains(t, out, "Deleted")

	out = h.mustRun("entries", "list")
	assert.NotContains(t, out, laptopID)

	_, err = h.run("", "entries", "delete", "ffffffff", "--yes")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCheckpointRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.mustRun("init")
	h.mustRun("expense", "add", "--amount", "12", "-c", "Food", "-d", "Lunch", "--date", "05/01/2025")

	out := h.mustRun("checkpoint", "create", "-t", "before-cleanup", "-d", "Before cleanup")
	assert.Contains(t, out, "Created checkpoint before-cleanup")
	assert.Contains(t, out, "Description: Before cleanup")

	out = h.mustRun("checkpoint", "list")
	assert.Contains(t, out, "before-cleanup")
	assert.Contains(t, out, "manual")

	h.mustRun("expense", "add", "--amount", "30", "-c", "Transport", "-d", "Taxi", "--date", "06/01/2025")
	assert.Contains(t, h.mustRun("entries", "list"), "Taxi")

	out, err := h.run("n\n", "checkpoint", "restore", "before-cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "Restore cancelled.")

	out = h.mustRun("checkpoint", "restore", "before-cleanup", "--yes")
	assert.Contains(t, out, "Restored from checkpoint before-cleanup")

	out = h.mustRun("entries", "list")
	assert.Contains(t, out, "Lunch")
	assert.NotContains(t, out, "Taxi")

	out = h.mustRun("checkpoint", "delete", "before-cleanup", "--yes")
	assert.Contains(t, out, "Deleted checkpoint before-cleanup")

	out = h.mustRun("checkpoint", "list")
	assert.Contains(t, out, "No checkpoints found.")

	_, err = h.run("", "checkpoint", "restore", "missing", "--yes")
	require.Error(t, err)
}

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20241231120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20241201120000[0:GMT]
<DTEND>20241231120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20241203120000[0:GMT]
<TRNAMT>-42.10
<FITID>2024120301
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20241205120000[0:GMT]
<TRNAMT>2500.00
<FITID>2024120501
<NAME>CREDIT
<MEMO>ACME PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>2457.90
<DTASOF>20241231120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestImportOFXAndExport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("init")

	statement := filepath.Join(h.dir, "checking.qfx")
	require.NoError(t, os.WriteFile(statement, []byte(statementOFX), 0o600))

	out := h.mustRun("import", "ofx", statement, "--dry-run")
	assert.Contains(t, out, "Whole Foods Market")
	assert.Contains(t, out, "Dry run: 2 transaction(s) would be imported")
	assert.Contains(t, h.mustRun("entries", "list"), "No entries found.")

	out = h.mustRun("import", "ofx", statement, statement)
	assert.Contains(t, out, "Checkpoint auto-import-")
	assert.Contains(t, out, "Imported 2 entries (0 duplicates skipped, 0 failed)")

	out = h.mustRun("import", "ofx", filepath.Join(h.dir, "*.qfx"), "--no-checkpoint")
	assert.NotContains(t, out, "Checkpoint")
	assert.Contains(t, out, "Imported 0 entries (2 duplicates skipped, 0 failed)")

	out = h.mustRun("checkpoint", "list")
	assert.Contains(t, out, "auto")

	out = h.mustRun("entries", "list", "-m", "12/2024")
	assert.Contains(t, out, "Whole Foods Market")
	assert.Contains(t, out, "$2,500.00")

	_, err := h.run("", "import", "ofx", filepath.Join(h.dir, "missing.qfx"))
	require.Error(t, err)

	xlsx := filepath.Join(h.dir, "out.xlsx")
	out = h.mustRun("export", "xlsx", "-o", xlsx, "--year", "2024")
	assert.Contains(t, out, "Exported 2 entries and 1 months to "+xlsx)
	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestVersionAndFlagErrors(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "budgie dev\n", h.mustRun("version"))

	_, err := h.run("", "expense", "add", "--amount", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")

	_, err = h.run("", "--log-level", "loud", "version")
	require.Error(t, err)

	_, err = h.run("", "report", "month", "13/2024")
	require.Error(t, err)
	assert.Contains(t, common.UserMessage(err), "invalid month")
}
