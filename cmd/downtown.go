package main

import "github.com/spf13/cobra"

var downtownCmd = &cobra.Command{
	Use:   "downtown",
	Short: "Downtown core delineation",
	Long:  "Delineate the contiguous downtown core of each place from zone-level employment, and inspect prior delineation runs.",
}

func init() { rootCmd.AddCommand(downtownCmd) }
