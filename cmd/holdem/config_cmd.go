package main

import (
	"fmt"
	"os"
)

type ConfigCmd struct {
	Output string `short:"o" type:"path" help:"Write the configuration to this file instead of stdout"`
}

func (c *ConfigCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return err
	}
	if c.Output == "" {
		_, err = os.Stdout.Write(cfg.Encode())
		return err
	}
	if err := cfg.Save(c.Output); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", c.Output)
	return nil
}
