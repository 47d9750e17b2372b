package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/structmap/structmap/internal/parse"
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages structmap can extract",
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range parse.NewParser().SupportedLanguages() {
			fmt.Println(lang)
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
