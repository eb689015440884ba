package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dzjyyds666/tomlpatch/parse/toml"
	"github.com/dzjyyds666/tomlpatch/patch"
	"github.com/dzjyyds666/tomlpatch/pkg"
)

// Exit codes of the patch command.
const (
	exitBadInput   = 1 // input unreadable or not valid TOML
	exitNotFound   = 2
	exitAmbiguous  = 3
	exitBadPayload = 4 // malformed path/value payload, or root deletion
	exitUnwritable = 5
)

type PatchParams struct {
	Sets       []string // repeatable: path = TOML_VALUE [# comment]
	DeleteKeys []string // repeatable: path
	DeleteSecs []string // repeatable: path
	TopComment string
	Verbose    bool
}

var patchParams *PatchParams

var patchCmd = &cobra.Command{
	Use:   "patch <input> <output>",
	Short: "Apply precise edits to a TOML file, preserving its formatting",
	Long: "Patch reads a TOML file, applies the requested edits, and writes the " +
		"result. Only the targeted lines change; comments, spacing, quoting and " +
		"key order everywhere else are preserved byte for byte.\n\n" +
		"Edits apply in groups: --top-comment, then every --set, then every " +
		"--delete-key, then every --delete-section. Any failure aborts the run " +
		"and no output is written.",
	Args: cobra.ExactArgs(2),
	Run:  patchRun,
}

func init() {
	patchParams = &PatchParams{}
	patchCmd.Flags().StringArrayVar(&patchParams.Sets, "set", nil,
		"repeatable; 'path = TOML_VALUE [# inline comment]', e.g. --set 'logger.stdout_level = 6 # disable'")
	patchCmd.Flags().StringArrayVar(&patchParams.DeleteKeys, "delete-key", nil,
		"repeatable; delete a single key by path, e.g. --delete-key 'logger.file_level'")
	patchCmd.Flags().StringArrayVar(&patchParams.DeleteSecs, "delete-section", nil,
		"repeatable; delete a section by path (non-recursive); arrays-of-tables need an index, e.g. 'servers[2]'")
	patchCmd.Flags().StringVar(&patchParams.TopComment, "top-comment", "",
		"replace or create the top-of-file comment block (newlines preserved)")
	patchCmd.Flags().BoolVarP(&patchParams.Verbose, "verbose", "v", false,
		"log each applied operation")
}

func patchRun(cmd *cobra.Command, args []string) {
	log := pkg.NewLogger(patchParams.Verbose)
	input, output := args[0], args[1]

	exist, err := pkg.CheckFileExist(input)
	if err != nil {
		fail(exitBadInput, "cannot read input: %v", err)
	}
	if !exist {
		fail(exitBadInput, "cannot read input: %s does not exist", input)
	}
	text, err := pkg.ReadFileText(input)
	if err != nil {
		fail(exitBadInput, "cannot read input: %v", err)
	}
	if _, err := toml.Parse(strings.NewReader(text)); err != nil {
		fail(exitBadInput, "invalid input TOML: %v", err)
	}

	doc := patch.NewDocument(text)

	if cmd.Flags().Changed("top-comment") {
		doc.ReplaceTopComment(patchParams.TopComment)
		log.Debug().Str("op", "top-comment").Msg("replaced top comment block")
	}

	for _, raw := range patchParams.Sets {
		pathStr, valueSrc, comment, err := patch.SplitSetExpr(raw)
		if err != nil {
			fail(exitBadPayload, "invalid --set payload: %v", err)
		}
		path, err := patch.ParsePath(pathStr)
		if err != nil {
			fail(exitBadPayload, "invalid --set payload: %v", err)
		}
		value, err := toml.ParseValue(valueSrc)
		if err != nil {
			fail(exitBadPayload, "invalid --set payload: %v", err)
		}
		if err := doc.Set(patch.SetPatch{Path: path, Value: value, Comment: comment}); err != nil {
			fail(exitFor(err), "%v", err)
		}
		log.Debug().Str("op", "set").Str("path", pathStr).Msg("value rewritten")
	}

	for _, raw := range patchParams.DeleteKeys {
		path, err := patch.ParsePath(raw)
		if err != nil {
			fail(exitBadPayload, "invalid --delete-key payload: %v", err)
		}
		if err := doc.DeleteKey(patch.DeleteKeyPatch{Path: path}); err != nil {
			fail(exitFor(err), "%v", err)
		}
		log.Debug().Str("op", "delete-key").Str("path", raw).Msg("key removed")
	}

	for _, raw := range patchParams.DeleteSecs {
		path, err := patch.ParsePath(raw)
		if err != nil {
			fail(exitBadPayload, "invalid --delete-section payload: %v", err)
		}
		if err := doc.DeleteSection(patch.DeleteSectionPatch{Path: path}); err != nil {
			fail(exitFor(err), "%v", err)
		}
		log.Debug().Str("op", "delete-section").Str("path", raw).Msg("section removed")
	}

	if err := pkg.WriteFileText(output, doc.Text()); err != nil {
		fail(exitUnwritable, "cannot write output: %v", err)
	}
}

func exitFor(err error) int {
	switch {
	case errors.Is(err, patch.ErrPathNotFound):
		return exitNotFound
	case errors.Is(err, patch.ErrAmbiguousPath):
		return exitAmbiguous
	case errors.Is(err, patch.ErrInvalidPayload), errors.Is(err, patch.ErrRootDeletion):
		return exitBadPayload
	}
	return exitBadInput
}

func fail(code int, format string, a ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, "error: "+format+"\n", a...)
	os.Exit(code)
}
