package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/layerlint/scaffold"
)

func scaffoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scaffold <root> <moduleName>",
		Short: "Create the canonical layer directories for a new module",
		Long: `Scaffold creates the seven canonical layer directories (controllers,
services, repositories, entities, dtos, mappers, utils) for a module under
<root>. Re-running on an existing module is a no-op that reports which
directories already existed.

Exit codes: 0 on success (including idempotent no-op), 2 on failure.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := scaffold.Generate(args[0], args[1])
			if err != nil {
				return err
			}

			for _, dir := range result.Created {
				fmt.Printf("created  %s/%s\n", result.Module, dir)
			}
			for _, dir := range result.Existed {
				fmt.Printf("existed  %s/%s\n", result.Module, dir)
			}
			return nil
		},
	}
}
