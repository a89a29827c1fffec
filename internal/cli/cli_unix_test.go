//go:build unix

package cli

import (
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExitStatus_FromProcesses(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   int
	}{
		{name: "success", script: "exit 0", want: 0},
		{name: "exit code", script: "exit 3", want: 3},
		{name: "killed by signal", script: "kill -TERM $$", want: 143},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exec.Command("sh", "-c", tt.script).Run()
			assert.Equal(t, tt.want, exitStatus(err))
		})
	}
}

func TestRunWorkload(t *testing.T) {
	var w workload

	status := runWorkload([]string{"sh", "-c", "exit 5"}, &w, zap.NewNop())

	assert.Equal(t, 5, status)
	assert.NotNil(t, w.process(), "started process must be published for signal forwarding")
}

func TestRunWorkload_MissingCommand(t *testing.T) {
	var w workload

	status := runWorkload([]string{"/nonexistent/command"}, &w, zap.NewNop())

	assert.Equal(t, exitNotStarted, status)
	assert.Nil(t, w.process())
}

func TestWorkload_SignalBeforeStart(t *testing.T) {
	var w workload
	called := false

	w.signal(syscall.SIGTERM, func() { called = true })
	status := runWorkload([]string{"sh", "-c", "exit 0"}, &w, zap.NewNop())

	assert.True(t, called)
	assert.Equal(t, exitTerminated, status, "a terminated launcher must not start the command")
	assert.Nil(t, w.process())
}

func TestWorkload_SignalForwardedToProcess(t *testing.T) {
	var w workload
	done := make(chan int, 1)

	go func() {
		done <- runWorkload([]string{"sleep", "30"}, &w, zap.NewNop())
	}()
	require.Eventually(t, func() bool { return w.process() != nil }, 5*time.Second, 10*time.Millisecond)

	w.signal(syscall.SIGTERM, func() { t.Error("running process must receive the signal") })

	select {
	case status := <-done:
		assert.Equal(t, exitTerminated, status)
	case <-time.After(10 * time.Second):
		t.Fatal("workload did not stop")
	}
}
