package vos

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookPath(t *testing.T) {
	memFs := afero.NewMemMapFs()
	for path, mode := range map[string]fs.FileMode{
		"/bin/ls":         0755,
		"/usr/bin/ls":     0755,
		"/usr/bin/notes":  0644,
		"/opt/tool/run":   0700,
		"/usr/local/bin/": 0755,
	} {
		if strings.HasSuffix(path, "/") {
			require.Nil(t, memFs.MkdirAll(path, mode))
			continue
		}
		require.Nil(t, afero.WriteFile(memFs, path, nil, mode))
		require.Nil(t, memFs.Chmod(path, mode))
	}

	cases := map[string]struct {
		path    string
		file    string
		want    string
		wantErr error
	}{
		"first match wins":  {path: "/usr/bin:/bin", file: "ls", want: "/usr/bin/ls"},
		"search order":      {path: "/bin:/usr/bin", file: "ls", want: "/bin/ls"},
		"not executable":    {path: "/usr/bin", file: "notes", wantErr: ErrNotFound},
		"missing":           {path: "/usr/bin:/bin", file: "nope", wantErr: ErrNotFound},
		"empty path":        {path: "", file: "ls", wantErr: ErrNotFound},
		"direct path":       {path: "", file: "/opt/tool/run", want: "/opt/tool/run"},
		"direct not exec":   {path: "/bin", file: "/usr/bin/notes", wantErr: fs.ErrPermission},
		"direct missing":    {path: "/bin", file: "/opt/tool/nope", wantErr: ErrNotFound},
		"directory in path": {path: "/usr/local", file: "bin", wantErr: ErrNotFound},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := LookPath(memFs, tc.path, tc.file)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLookupEnvList(t *testing.T) {
	env := []string{"HOME=/root", "PATH=/bin", "EMPTY", "PATH=/usr/bin:/bin"}

	assert.Equal(t, "/usr/bin:/bin", lookupEnvList(env, "PATH"))
	assert.Equal(t, "/root", lookupEnvList(env, "HOME"))
	assert.Equal(t, "", lookupEnvList(env, "EMPTY"))
	assert.Equal(t, "", lookupEnvList(env, "MISSING"))
}

func TestExitState(t *testing.T) {
	assert.True(t, ExitState{}.Success())
	assert.Equal(t, "exit status 0", ExitState{}.String())

	failed := ExitState{Code: 2}
	assert.True(t, failed.Exited())
	assert.False(t, failed.Success())
	assert.Equal(t, "exit status 2", failed.String())

	killed := ExitState{Code: -1, Signal: "killed"}
	assert.False(t, killed.Exited())
	assert.False(t, killed.Success())
	assert.Equal(t, "signal: killed", killed.String())
}

func requireShell(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestOSLauncher(t *testing.T) {
	requireShell(t)

	cases := map[string]struct {
		script string
		want   ExitState
	}{
		"success": {"exit 0", ExitState{Code: 0}},
		"failure": {"exit 3", ExitState{Code: 3}},
		"killed":  {"kill -9 $$", ExitState{Code: -1, Signal: "killed"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			proc, err := NewOSLauncher().Start([]string{"sh", "-c", tc.script}, nil)
			require.Nil(t, err)
			assert.NotZero(t, proc.Pid())

			state, err := proc.Wait()
			require.Nil(t, err)
			assert.Equal(t, tc.want, state)
		})
	}
}

func TestOSLauncher_streams(t *testing.T) {
	requireShell(t)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	proc, err := NewOSLauncher().Start([]string{"sh", "-c", `echo "$0 $1"; echo oops >&2`, "zero", "one"}, &ProcAttr{
		Files: NewVIOAdapter(nil, out, errOut),
	})
	require.Nil(t, err)

	_, err = proc.Wait()
	require.Nil(t, err)
	assert.Equal(t, "zero one\n", out.String())
	assert.Equal(t, "oops\n", errOut.String())
}

func TestOSLauncher_dirAndEnv(t *testing.T) {
	requireShell(t)

	shPath, err := exec.LookPath("sh")
	require.Nil(t, err)

	out := &bytes.Buffer{}
	proc, err := NewOSLauncher().Start([]string{shPath, "-c", `echo "$(pwd) $GREETING"`}, &ProcAttr{
		Dir:   "/",
		Env:   []string{"GREETING=hi"},
		Files: NewVIOAdapter(nil, out, nil),
	})
	require.Nil(t, err)

	_, err = proc.Wait()
	require.Nil(t, err)
	assert.Equal(t, "/ hi\n", out.String())
}

func TestOSLauncher_startErrors(t *testing.T) {
	launcher := NewOSLauncher()

	_, err := launcher.Start(nil, nil)
	assert.Equal(t, ErrNoCommand, err)

	_, err = launcher.Start([]string{"bsh-definitely-not-a-real-program"}, nil)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	assert.True(t, strings.HasPrefix(err.Error(), "bsh-definitely-not-a-real-program: "), err.Error())

	_, err = launcher.Start([]string{"sh"}, &ProcAttr{Env: []string{"PATH="}})
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestOSWorkingDir(t *testing.T) {
	orig, err := os.Getwd()
	require.Nil(t, err)
	t.Cleanup(func() {
		os.Chdir(orig)
	})

	var wd OSWorkingDir
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.Nil(t, err)

	require.Nil(t, wd.Chdir(dir))
	got, err := wd.Getwd()
	require.Nil(t, err)
	assert.Equal(t, dir, got)

	err = wd.Chdir(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	got, err = wd.Getwd()
	require.Nil(t, err)
	assert.Equal(t, dir, got)
}
