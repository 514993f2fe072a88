package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/datacommons/graph-dataloader/internal/constants"
	"github.com/datacommons/graph-dataloader/internal/props"
)

// propsConfig holds the configuration of the props command.
type propsConfig struct {
	ModelFile string
	Delimiter string
	Domain    string
	Output    string
}

func installPropsCmd(app *App) {
	propsCmd := &cobra.Command{
		Use:   "props",
		Short: "Derive the loader property file from a model schema",
		Long: `Derive the loader property file (plural forms, identifier fields and
type mapping) from a model schema file, without running a load.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running props command")
			return app.propsRun()
		},
	}

	propsCmd.Flags().StringVarP(&app.config.Props.ModelFile, "model", "m", "", "model schema file to derive from")
	propsCmd.Flags().StringVar(&app.config.Props.Delimiter, "delimiter", ";", "delimiter used for composite values in the metadata")
	propsCmd.Flags().StringVar(&app.config.Props.Domain, "domain", constants.DefaultDomain, "domain value recorded in the property file")
	propsCmd.Flags().StringVarP(&app.config.Props.Output, "output", "o", constants.DefaultPropFileName, "path the property file is written to")

	if err := propsCmd.MarkFlagRequired("model"); err != nil {
		panic(fmt.Sprintf("failed to mark model flag as required: %v", err))
	}
	if err := propsCmd.MarkFlagFilename("model", "yml", "yaml"); err != nil {
		panic(fmt.Sprintf("failed to mark model flag as filename: %v", err))
	}

	app.cmd.AddCommand(propsCmd)
}

func (a *App) propsRun() error {
	cfg := a.config.Props

	path, err := props.New(slog.Default()).Generate(cfg.ModelFile, cfg.Delimiter, cfg.Domain, cfg.Output)
	if err != nil {
		return err
	}

	fmt.Printf("wrote property file %s\n", path)
	return nil
}
