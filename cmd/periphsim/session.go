package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"

	"periphio-go/chip"
	"periphio-go/errcode"
	"periphio-go/hal"
	"periphio-go/hal/sim"
	"periphio-go/internal/util"
	"periphio-go/periph"
	"periphio-go/pinirq"
	"periphio-go/pps"
	"periphio-go/serial"
	"periphio-go/types"
)

type session struct {
	desc   chip.Descriptor
	chip   *sim.Chip
	sys    *periph.System
	worker *pinirq.Worker
	stop   context.CancelFunc
}

func newSession(d chip.Descriptor, opt sim.Options, console int) (*session, error) {
	c := sim.New(d, opt)
	sys, err := periph.New(c, d, periph.Options{Console: console})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{desc: d, chip: c, sys: sys, worker: pinirq.NewWorker(0, 256), stop: cancel}
	s.worker.Start(ctx)
	sys.Fault.SetPark(func() { glog.Error("system halted") })
	for i := 0; i < d.NumUARTs(); i++ {
		i := i
		c.SetSink(i, func(b byte) {
			if glog.V(2) {
				glog.Infof("uart%d tx %q", i, b)
			}
		})
	}
	glog.Infof("simulating %s: %d UARTs, %d port groups, %d external lines",
		d.Name, d.NumUARTs(), d.NumPorts(), d.NumExtLines())
	return s, nil
}

func (s *session) close() {
	s.sys.Close()
	s.stop()
	<-s.worker.Done()
	if v, stormed := s.chip.Stormed(); stormed {
		glog.Warningf("interrupt storm on vector %d", v)
	}
}

type command struct {
	name, help string
	min        int
	run        func(s *session, args []string) (string, error)
}

var commands []command

func init() {
	commands = []command{
		{"open", "CH BAUD [FORMAT] [direct]: open a channel", 2, (*session).open},
		{"close", "CH: close a channel", 1, (*session).closeChannel},
		{"write", "CH TEXT...: queue text (Go escapes allowed)", 2, (*session).write},
		{"emerg", "CH TEXT...: write on the emergency path", 2, (*session).emergency},
		{"read", "CH: read whatever has arrived", 1, (*session).read},
		{"avail", "CH: bytes to read and room to write", 1, (*session).avail},
		{"flush", "CH [TIMEOUT]: wait for transmission to finish", 1, (*session).flush},
		{"purge", "CH: drop received bytes", 1, (*session).purge},
		{"status", "CH [clear]: hardware receive errors", 1, (*session).status},
		{"pin", "CH tx|rx PIN: route a channel pin", 3, (*session).routePin},
		{"inject", "CH TEXT...: deliver bytes to a receiver", 2, (*session).inject},
		{"tick", "CH N: shift N bytes out of a transmitter (--manual)", 2, (*session).tick},
		{"sent", "CH: everything a transmitter has put on the line", 1, (*session).sent},
		{"drive", "PIN 0|1: drive a pin", 2, (*session).drive},
		{"connect", "PIN rising|falling|both [DEBOUNCE]: watch pin changes", 2, (*session).connect},
		{"disconnect", "PIN rising|falling|both: stop watching", 2, (*session).disconnect},
		{"ext", "LINE PIN rising|falling: attach an external interrupt line", 3, (*session).ext},
		{"unext", "LINE: detach an external interrupt line", 1, (*session).unext},
		{"events", "print pin events delivered so far", 0, (*session).events},
		{"fatal", "stack|oom|halt [WHAT]: run the fatal path", 1, (*session).fatal},
	}
}

func (s *session) exec(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		if len(args)-1 < c.min {
			return "", fmt.Errorf("usage: %s %s", c.name, c.help)
		}
		return c.run(s, args[1:])
	}
	return "", fmt.Errorf("unknown command %q", args[0])
}

func (s *session) channel(arg string) (*serial.Channel, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("bad channel %q", arg)
	}
	return s.sys.Serial.Channel(i)
}

func parsePin(arg string) (pps.Pin, error) {
	p, ok := pps.ParsePin(arg)
	if !ok {
		return 0, fmt.Errorf("bad pin %q", arg)
	}
	return p, nil
}

func parseEdge(arg string) (gpio.Edge, error) {
	switch strings.ToLower(arg) {
	case "rising", "r", "up":
		return gpio.RisingEdge, nil
	case "falling", "f", "down":
		return gpio.FallingEdge, nil
	case "both", "b":
		return gpio.BothEdges, nil
	}
	return gpio.NoEdge, fmt.Errorf("bad edge %q", arg)
}

// parseText joins args with spaces and expands Go escapes such as \r\n.
func parseText(args []string) ([]byte, error) {
	joined := strings.Join(args, " ")
	text, err := strconv.Unquote(`"` + strings.ReplaceAll(joined, `"`, `\"`) + `"`)
	if err != nil {
		return nil, fmt.Errorf("bad text %q", joined)
	}
	return []byte(text), nil
}

func (s *session) open(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	baud, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return "", fmt.Errorf("bad baud %q", args[1])
	}
	cfg := serial.Config{Baud: uint32(baud)}
	for _, a := range args[2:] {
		if a == "direct" {
			cfg.TXMode = serial.TXDirect
			continue
		}
		if cfg.Format, err = types.ParseSerialFormat(a); err != nil {
			return "", err
		}
	}
	if err := ch.Open(cfg); err != nil {
		return "", err
	}
	actual, f, _ := ch.Settings()
	glog.Infof("uart%d open %d baud %s %s", ch.Index(), actual, f, cfg.TXMode)
	return fmt.Sprintf("uart%d: %d baud %s", ch.Index(), actual, f), nil
}

func (s *session) closeChannel(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	if err := ch.Close(); err != nil {
		return "", err
	}
	glog.Infof("uart%d closed", ch.Index())
	return "", nil
}

func (s *session) write(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	p, err := parseText(args[1:])
	if err != nil {
		return "", err
	}
	if !ch.IsOpen() {
		return "", errcode.NotOpen
	}
	n := ch.WriteTimeout(p, 100*time.Millisecond)
	return fmt.Sprintf("wrote %d/%d", n, len(p)), nil
}

func (s *session) emergency(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	p, err := parseText(args[1:])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("wrote %d", ch.WriteEmergency(p)), nil
}

func (s *session) read(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	buf := make([]byte, ch.Available())
	n, err := ch.Read(buf)
	if err != nil {
		return "", err
	}
	return strconv.Quote(string(buf[:n])), nil
}

func (s *session) avail(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rx %d tx-free %d dropped %d", ch.Available(), ch.AvailableForWrite(), ch.Dropped()), nil
}

func (s *session) flush(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	d := time.Second
	if len(args) > 1 {
		if d, err = time.ParseDuration(args[1]); err != nil {
			return "", err
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return "", ch.Flush(ctx)
}

func (s *session) purge(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("purged %d", ch.Purge()), nil
}

func (s *session) status(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	fault := ch.Fault()
	if len(args) > 1 && args[1] == "clear" {
		ch.ClearFault()
	}
	if fault == nil {
		return "ok", nil
	}
	return fault.Error(), nil
}

func (s *session) routePin(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	p, err := parsePin(args[2])
	if err != nil {
		return "", err
	}
	switch args[1] {
	case "tx":
		err = ch.SetTXPin(p)
	case "rx":
		err = ch.SetRXPin(p)
	default:
		err = fmt.Errorf("want tx or rx, got %q", args[1])
	}
	return "", err
}

func (s *session) inject(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	p, err := parseText(args[1:])
	if err != nil {
		return "", err
	}
	s.chip.Inject(ch.Index(), p...)
	return "", nil
}

func (s *session) tick(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 {
		return "", fmt.Errorf("bad count %q", args[1])
	}
	s.chip.Tick(ch.Index(), n)
	return "", nil
}

func (s *session) sent(args []string) (string, error) {
	ch, err := s.channel(args[0])
	if err != nil {
		return "", err
	}
	return strconv.Quote(string(s.chip.Sent(ch.Index()))), nil
}

func (s *session) drive(args []string) (string, error) {
	p, err := parsePin(args[0])
	if err != nil {
		return "", err
	}
	if g, _ := hal.GroupOf(int(p)); g >= s.desc.NumPorts() {
		return "", fmt.Errorf("no such pin %s", pps.PinName(p))
	}
	s.chip.Drive(p, args[1] == "1" || args[1] == "high")
	return "", nil
}

func (s *session) connect(args []string) (string, error) {
	p, err := parsePin(args[0])
	if err != nil {
		return "", err
	}
	e, err := parseEdge(args[1])
	if err != nil {
		return "", err
	}
	var cfg pinirq.WatchConfig
	if len(args) > 2 {
		if cfg.Debounce, err = time.ParseDuration(args[2]); err != nil {
			return "", err
		}
	}
	if g, _ := hal.GroupOf(int(p)); g >= s.desc.NumPorts() {
		return "", fmt.Errorf("no such pin %s", pps.PinName(p))
	}
	cb := s.worker.Watch(p, gpio.Level(s.chip.Level(p)), cfg)
	if err := s.sys.IRQ.ConnectChange(p, e, cb); err != nil {
		s.worker.Unwatch(p)
		return "", err
	}
	return "", nil
}

func (s *session) disconnect(args []string) (string, error) {
	p, err := parsePin(args[0])
	if err != nil {
		return "", err
	}
	e, err := parseEdge(args[1])
	if err != nil {
		return "", err
	}
	if err := s.sys.IRQ.DisconnectChange(p, e); err != nil {
		return "", err
	}
	if !s.sys.IRQ.Connected(p, gpio.RisingEdge) && !s.sys.IRQ.Connected(p, gpio.FallingEdge) {
		s.worker.Unwatch(p)
	}
	return "", nil
}

func (s *session) ext(args []string) (string, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("bad line %q", args[0])
	}
	p, err := parsePin(args[1])
	if err != nil {
		return "", err
	}
	e, err := parseEdge(args[2])
	if err != nil {
		return "", err
	}
	if g, _ := hal.GroupOf(int(p)); g >= s.desc.NumPorts() {
		return "", fmt.Errorf("no such pin %s", pps.PinName(p))
	}
	cb := s.worker.Watch(p, gpio.Level(s.chip.Level(p)), pinirq.WatchConfig{})
	if err := s.sys.IRQ.ConnectExternal(p, n, e, cb); err != nil {
		s.worker.Unwatch(p)
		return "", err
	}
	return "", nil
}

func (s *session) unext(args []string) (string, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("bad line %q", args[0])
	}
	return "", s.sys.IRQ.DisconnectExternal(n)
}

// events drains the worker. Deliveries happen on the worker goroutine, so
// give it a moment to catch up with edges driven just before.
func (s *session) events(args []string) (string, error) {
	var b strings.Builder
	deadline := time.After(20 * time.Millisecond)
	for {
		select {
		case ev := <-s.worker.Events():
			fmt.Fprintf(&b, "%s %d\n", pps.PinName(ev.Pin), util.BoolToInt(bool(ev.Level)))
			continue
		case <-deadline:
		}
		break
	}
	if d := s.worker.ISRDrops() + s.worker.OutDrops(); d > 0 {
		fmt.Fprintf(&b, "dropped %d\n", d)
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func (s *session) fatal(args []string) (string, error) {
	what := ""
	if len(args) > 1 {
		what = args[1]
	}
	switch args[0] {
	case "stack":
		s.sys.Fault.StackOverflow(what)
	case "oom":
		s.sys.Fault.OutOfMemory(what)
	case "halt":
		s.sys.Fault.Halt(what, 0)
	default:
		return "", errors.New("want stack, oom or halt")
	}
	return s.sys.Fault.Reason().String(), nil
}
