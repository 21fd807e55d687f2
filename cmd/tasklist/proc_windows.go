//go:build windows

package main

import (
	"os/exec"
	"syscall"
)

// configureServerProc detaches the spawned server from the console.
func configureServerProc(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}
