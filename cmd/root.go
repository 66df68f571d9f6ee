package cmd

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/byxorna/notepad/pkg/config"
	"github.com/byxorna/notepad/pkg/db/fs"
	"github.com/byxorna/notepad/pkg/model"
	"github.com/byxorna/notepad/pkg/runtime"
	"github.com/byxorna/notepad/pkg/session"
	"github.com/byxorna/notepad/pkg/websearch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flags = struct {
		ConfigFile string
		Debug      bool
		AltScreen  bool
		PprofPort  int
	}{}

	root = &cobra.Command{
		Use:   "notepad [file]",
		Short: "Cortex Notepad is a plain text editor for the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Debug {
				path, err := runtime.DebugLog()
				if err != nil {
					return fmt.Errorf("unable to locate debug log: %w", err)
				}
				f, err := tea.LogToFile(path, "notepad")
				if err != nil {
					return err
				}
				defer f.Close()
			} else {
				log.SetOutput(ioutil.Discard)
			}

			if flags.PprofPort > 0 {
				startPprof(flags.PprofPort)
			}

			cfg, err := config.Load(flags.ConfigFile)
			if err != nil {
				return err
			}

			store := fs.New()
			defer store.Close()

			sess := session.New(store, session.Options{
				AutosaveInterval: cfg.AutosaveInterval,
				TrimOnSave:       cfg.TrimOnSave,
				DefaultExtension: cfg.DefaultExtension,
			})
			searcher := websearch.New(cfg.Search.URLPrefix, cfg.Search.RawQuery)

			m := model.New(cfg, sess, searcher)
			if len(args) > 0 {
				if err := m.OpenFile(args[0]); err != nil {
					log.Printf("unable to open %s: %v", args[0], err)
				}
			}

			opts := []tea.ProgramOption{}
			if flags.AltScreen {
				opts = append(opts, tea.WithAltScreen())
			}
			_, err = tea.NewProgram(m, opts...).Run()
			return err
		},
	}
)

func init() {
	root.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", config.DefaultPath, "configuration file")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "write a debug log to the runtime directory")
	root.PersistentFlags().BoolVar(&flags.AltScreen, "alt-screen", true, "use the terminal's alternate screen")
	root.PersistentFlags().IntVar(&flags.PprofPort, "pprof-port", 0, "serve pprof on this port, 0 disables it")
}

func Execute() {
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
