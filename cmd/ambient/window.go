package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/ambient"
	"github.com/phanxgames/ambient/ebitenhost"
)

func newWindowCmd(a *app) *cobra.Command {
	var (
		title         string
		showFPS       bool
		script        string
		screenshotDir string
	)
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Open the scene in a desktop window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			world, overlay := ambient.NewLayer(), ambient.NewLayer()
			e, err := a.newEngine(world, overlay, nil)
			if err != nil {
				return err
			}

			h := ebitenhost.New(e, world, overlay,
				ebitenhost.WithLogger(a.log),
				ebitenhost.WithSession(a.session),
			)
			h.ScreenshotDir = screenshotDir

			content := LoadContent(a.contentFile, a.log)
			buildPage(h, content)

			if script != "" {
				data, err := os.ReadFile(script)
				if err != nil {
					e.Close()
					return errors.Wrapf(err, "read test script %s", script)
				}
				runner, err := ebitenhost.LoadTestScript(data)
				if err != nil {
					e.Close()
					return err
				}
				h.SetTestRunner(runner)
				a.log.Info("test script loaded", zap.String("file", script))
			}

			reload := a.watch()
			h.OnUpdate = func() { reload.apply(e) }

			return ebitenhost.Run(h, ebitenhost.RunConfig{
				Title:   title,
				Width:   a.cfg.Width,
				Height:  a.cfg.Height,
				ShowFPS: showFPS,
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "ambient", "window title")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show the FPS and stats overlay (F3 toggles)")
	cmd.Flags().StringVar(&script, "script", "", "YAML test script to drive input and screenshots")
	cmd.Flags().StringVar(&screenshotDir, "screenshot-dir", "screenshots", "directory for F12 and scripted screenshots")
	return cmd
}

// buildPage adds the hero panel, typed out on open, and one panel per
// content section.
func buildPage(h *ebitenhost.Host, c Content) {
	hero := h.AddPanel("", c.About.Specialization)
	h.Type(hero, c.Hero())
	for _, s := range c.Sections() {
		h.AddPanel(s.Heading, s.Body)
	}
}
