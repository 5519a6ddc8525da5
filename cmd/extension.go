package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/dividends/config"
)

// Environment variables passing the global flags to extensions.
const (
	EnvConfigFile = "DVD_CONFIG"
	EnvDataRoot   = config.EnvDataRoot
	EnvVerbose    = "DVD_VERBOSE"
)

// RunExtension attempts to find and execute an external dvd-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	lp, err := exec.LookPath("dvd-" + subcommand)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Global flags are passed as environment variables.
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)
	if *dataRoot != "" {
		cmd.Env = append(cmd.Env, EnvDataRoot+"="+*dataRoot)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", lp, err)
		return true, 1
	}
	return true, 0
}
