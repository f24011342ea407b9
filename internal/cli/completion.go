package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/sizes"
)

// sizeTemplates are offered next to the named presets when completing --sizes.
var sizeTemplates = []string{"pow10:3-6", "double:1000*6", "linear:1000+1000*8"}

// RegisterCompletions attaches dynamic value completion to the analysis
// flags of cmd. Flags that cmd does not define are skipped.
func RegisterCompletions(cmd *cobra.Command, reg *candidates.Registry) {
	register := func(flag string, fn func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)) {
		if cmd.Flags().Lookup(flag) == nil {
			return
		}
		_ = cmd.RegisterFlagCompletionFunc(flag, fn)
	}
	register("candidates", CompleteCandidates(reg))
	register("sizes", CompleteSizes)
	register("mode", CompleteModes)
}

// CompleteCandidates completes the last element of a comma-separated
// candidate list.
func CompleteCandidates(reg *candidates.Registry) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		prefix, partial := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix, partial = toComplete[:i+1], toComplete[i+1:]
		}
		chosen := make(map[string]bool)
		for _, name := range strings.Split(prefix, ",") {
			chosen[strings.TrimSpace(name)] = true
		}

		names := append([]string{"all"}, reg.List()...)
		var out []string
		for _, name := range names {
			if chosen[name] || !strings.HasPrefix(name, partial) {
				continue
			}
			if name == "all" && prefix != "" {
				continue
			}
			out = append(out, prefix+name)
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

// CompleteSizes offers the size presets and generator templates.
func CompleteSizes(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, v := range append(sizes.Names(), sizeTemplates...) {
		if strings.HasPrefix(v, toComplete) {
			out = append(out, v)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// CompleteModes offers the input modes.
func CompleteModes(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, m := range bench.Modes() {
		if strings.HasPrefix(string(m), toComplete) {
			out = append(out, string(m))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
