// Package cli gardenctl 指令列工具，提供純函式的離線查詢
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// RootCommand 建立根指令
func RootCommand() *cobra.Command {
	var asJSON bool

	rootCmd := &cobra.Command{
		Use:           "gardenctl",
		Short:         "Garden assistant offline tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print results as JSON")

	out := func(cmd *cobra.Command) printer {
		return printer{w: cmd.OutOrStdout(), json: asJSON}
	}

	rootCmd.AddCommand(
		normalizeCommand(out),
		keyCommand(out),
		zoneCommand(out),
		stageCommand(out),
		windowCommand(out),
	)
	return rootCmd
}

// printer 依 --json 選擇輸出格式
type printer struct {
	w    io.Writer
	json bool
}

// print text 為純文字輸出，v 為 JSON 輸出
func (p printer) print(text string, v interface{}) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(p.w, text)
	return err
}
