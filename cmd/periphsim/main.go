// Command periphsim drives the peripheral I/O layer against the simulated
// chip, interactively or from a script.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"periphio-go/chip"
	"periphio-go/hal/sim"
)

var (
	chipName  string
	chipsFile string
	script    string
	loopback  bool
	manual    bool
	fifoDepth int
	console   int

	rootCmd = &cobra.Command{
		Use:   "periphsim [command args...]",
		Short: "Exercise serial channels and pin interrupts on a simulated chip",
		Long: "periphsim builds the peripheral layer on a simulated part and runs commands " +
			"against it: from the arguments, from a script file, or from an interactive shell.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// glog reads its settings from the standard flag set.
			_ = flag.CommandLine.Parse(nil)
			defer glog.Flush()

			d, err := loadChip()
			if err != nil {
				return err
			}
			s, err := newSession(d, sim.Options{Loopback: loopback, Manual: manual, FIFODepth: fifoDepth}, console)
			if err != nil {
				return err
			}
			defer s.close()

			switch {
			case script != "":
				f, err := os.Open(script)
				if err != nil {
					return err
				}
				defer f.Close()
				return runScript(s, f, os.Stdout)
			case len(args) > 0:
				out, err := s.exec(args)
				if out != "" {
					fmt.Fprintln(os.Stdout, out)
				}
				return err
			}
			runShell(s)
			return nil
		},
	}

	chipsCmd = &cobra.Command{
		Use:   "chips",
		Short: "List the known parts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := chip.All()
			if chipsFile != "" {
				var err error
				if ds, err = chip.Load(chipsFile); err != nil {
					return err
				}
			}
			for _, d := range ds {
				fmt.Printf("%s: %d UARTs, %d port groups, %d external lines (%s)\n",
					d.Name, d.NumUARTs(), d.NumPorts(), d.NumExtLines(), strings.Join(d.Chips, " "))
			}
			return nil
		},
	}
)

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&chipName, "chip", chip.DefaultName, "part to simulate")
	f.StringVar(&chipsFile, "chips", "", "YAML file of chip descriptors to use instead of the built-in ones")
	rootCmd.Flags().StringVar(&script, "script", "", "run commands from `file`, one per line")
	rootCmd.Flags().BoolVar(&loopback, "loopback", false, "wire every UART's TX back to its RX")
	rootCmd.Flags().BoolVar(&manual, "manual", false, "hold transmitted bytes in the UART FIFO until 'tick'")
	rootCmd.Flags().IntVar(&fifoDepth, "fifo", 8, "UART hardware FIFO depth")
	rootCmd.Flags().IntVar(&console, "console", 0, "channel fatal reports go out on (-1 for none)")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.AddCommand(chipsCmd)
}

func loadChip() (chip.Descriptor, error) {
	if chipsFile == "" {
		return chip.Find(chipName)
	}
	ds, err := chip.Load(chipsFile)
	if err != nil {
		return chip.Descriptor{}, err
	}
	return chip.FindIn(ds, chipName)
}

// runScript executes r line by line. Blank lines and lines starting with
// '#' are skipped; the first failing command stops the script.
func runScript(s *session, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		args, err := shlex.Split(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		glog.V(1).Infof("script:%d %q", line, args)
		out, err := s.exec(args)
		if out != "" {
			fmt.Fprintln(w, out)
		}
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", line, args[0], err)
		}
	}
	return sc.Err()
}

func runShell(s *session) {
	sh := ishell.New()
	sh.SetPrompt(s.desc.Name + " > ")
	for _, c := range commands {
		c := c
		sh.AddCmd(&ishell.Cmd{
			Name: c.name,
			Help: c.help,
			Func: func(ctx *ishell.Context) {
				out, err := c.run(s, ctx.Args)
				if out != "" {
					ctx.Println(out)
				}
				if err != nil {
					ctx.Err(err)
				}
			},
		})
	}
	sh.Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		glog.Flush()
		os.Exit(1)
	}
}
