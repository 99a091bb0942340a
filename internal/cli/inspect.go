package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/scene/sink"
)

// inspectCommand creates the inspect command for browsing a scene's
// placements interactively.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [scene.json]",
		Short: "Browse a scene's placements interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0])
		},
	}
}

func (c *CLI) runInspect(input string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", input)
		}
		return fmt.Errorf("read scene %s: %w", input, err)
	}
	sc, err := sink.ParseJSON(data)
	if err != nil {
		return err
	}
	if len(sc.Solids) == 0 {
		printInfo("Scene contains no placements")
		return nil
	}

	model := newSolidListModel(sc)
	_, err = tea.NewProgram(model).Run()
	return err
}
