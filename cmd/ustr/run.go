package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/ustr/internal/plugin/lua"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run SCRIPT.lua [ARGS...]",
		Short: "Run a Lua script with the ustr module",
		Long: `Run a Lua script in a sandbox. The script sees the global module ustr
and its arguments in the table arg. The run is bounded by
script.timeout and script.instruction_limit.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := lua.NewState(
				lua.WithExecutionTimeout(a.cfg.Script.Timeout),
				lua.WithInstructionLimit(int64(a.cfg.Script.InstructionLimit)),
				lua.WithOutput(a.stdout),
				lua.WithLogger(a.logger),
			)
			defer state.Close()

			if err := state.SetGlobal("arg", args[1:]); err != nil {
				return err
			}
			if err := state.DoFile(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("running %s: %w", args[0], err)
			}
			return nil
		},
	}
}
