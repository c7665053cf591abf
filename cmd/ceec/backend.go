package main

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// backendOptimize pipes the emitted LLVM IR assembly through the opt
// tool of the external LLVM toolchain, located via PATH, and returns
// the optimized assembly.
func backendOptimize(asm string) (string, error) {
	opt, err := exec.LookPath("opt")
	if err != nil {
		return "", errors.Wrap(err, "unable to locate opt in backend toolchain")
	}
	cmd := exec.Command(opt, "-S", "-O2")
	cmd.Stdin = strings.NewReader(asm)
	out := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = out
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "backend optimization failed: %s", stderr)
	}
	return out.String(), nil
}
