/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "officeflow",
	Short: "Office task lifecycle and approval gate server",
	Long: `OfficeFlow is a REST API server for office automation requests.
It classifies incoming requests by risk, plans sub tasks per handler
capability, walks each task through a lifecycle state machine, and
blocks high-risk tasks behind a human approval gate with a full
audit ledger.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// GetRootCmd 返回根命令（用于测试）
func GetRootCmd() *cobra.Command {
	return rootCmd
}
