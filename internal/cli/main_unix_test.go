//go:build unix

package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for `detach run` (the test binary re-executes itself as the launcher):
// - The caller gets control back with status 0 after logging "Detaching"
// - The command's output and the launcher's log land in the log file
// - The command's exit status is logged with the run id

const (
	cliHelperEnv = "DETACH_CLI_TEST_HELPER"
	cliLogEnv    = "DETACH_CLI_TEST_LOG"
)

func TestMain(m *testing.M) {
	switch os.Getenv(cliHelperEnv) {
	case "":
		os.Exit(m.Run())
	case "run":
		rootCmd.SetArgs([]string{"run", "--log", os.Getenv(cliLogEnv), "--", "sh", "-c", "echo hi; exit 3"})
		Execute()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown helper %q\n", os.Getenv(cliHelperEnv))
		os.Exit(2)
	}
}

func TestRunCommand_DetachesAndLogsWorkload(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "run.log")

	var stderr bytes.Buffer
	cmd := exec.Command(os.Args[0], "-test.run=^$")
	cmd.Env = append(os.Environ(),
		cliHelperEnv+"=run",
		cliLogEnv+"="+logFile,
		"HOME="+dir,
		"DETACH_LOG_FORMAT=json",
	)
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Run())
	assert.Contains(t, stderr.String(), `"msg":"Detaching"`)

	var log string
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logFile)
		if err != nil {
			return false
		}
		log = string(data)
		return strings.Contains(log, `"msg":"Workload finished"`)
	}, 10*time.Second, 20*time.Millisecond, "workload never finished")

	assert.Contains(t, log, "hi\n", "command output must be appended to the log file")
	assert.Contains(t, log, `"msg":"Detached"`)
	assert.Contains(t, log, `"status":3`)
	assert.Contains(t, log, `"run_id":`)
	assert.NotContains(t, stderr.String(), "hi\n", "command output must not reach the caller")
}
