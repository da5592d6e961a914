package main

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/taskdeck/taskdeck/internal/testsupport"
)

func TestTaskScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/task",
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env)
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"taskid":         testsupport.CmdTaskID,
			"expiresessions": testsupport.CmdExpireSessions,
		},
	})
}
