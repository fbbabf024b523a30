package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"periphio-go/chip"
	"periphio-go/errcode"
	"periphio-go/hal/sim"
)

func newTestSession(t *testing.T, opt sim.Options) *session {
	t.Helper()
	s, err := newSession(chip.Default(), opt, 0)
	require.NoError(t, err)
	t.Cleanup(s.close)
	return s
}

func TestScriptLoopback(t *testing.T) {
	s := newTestSession(t, sim.Options{Loopback: true})
	script := `
# echo a command through the looped-back UART
open 0 115200 8N1
write 0 'AT\r\n'
avail 0
read 0
close 0
`
	var out bytes.Buffer
	require.NoError(t, runScript(s, strings.NewReader(script), &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "uart0: 115741 baud 8N1", lines[0])
	require.Equal(t, "wrote 4/4", lines[1])
	require.True(t, strings.HasPrefix(lines[2], "rx 4 "), lines[2])
	require.Equal(t, `"AT\r\n"`, lines[3])

	_, err := s.exec([]string{"read", "0"})
	require.ErrorIs(t, err, errcode.NotOpen)
}

func TestScriptStopsAtFirstError(t *testing.T) {
	s := newTestSession(t, sim.Options{})
	var out bytes.Buffer
	err := runScript(s, strings.NewReader("open 0 9600\nopen 0 9600\nclose 0\n"), &out)
	require.ErrorIs(t, err, errcode.AlreadyOpen)
	require.Contains(t, err.Error(), "line 2: open")
	ch, err := s.sys.Serial.Channel(0)
	require.NoError(t, err)
	require.True(t, ch.IsOpen(), "line 3 never ran")
}

func TestExecErrors(t *testing.T) {
	s := newTestSession(t, sim.Options{})

	_, err := s.exec([]string{"frobnicate"})
	require.ErrorContains(t, err, "unknown command")
	_, err = s.exec([]string{"open", "0"})
	require.ErrorContains(t, err, "usage: open")
	_, err = s.exec([]string{"open", "9", "9600"})
	require.ErrorIs(t, err, errcode.InvalidChannel)
	_, err = s.exec([]string{"write", "0", "hi"})
	require.ErrorIs(t, err, errcode.NotOpen)
	_, err = s.exec([]string{"drive", "RZ1", "1"})
	require.Error(t, err)
	_, err = s.exec([]string{"connect", "RB5", "sideways"})
	require.ErrorContains(t, err, "bad edge")
	out, err := s.exec(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestPinEvents(t *testing.T) {
	s := newTestSession(t, sim.Options{})
	for _, cmd := range [][]string{
		{"connect", "RB5", "both"},
		{"drive", "RB5", "1"},
		{"drive", "RB5", "0"},
	} {
		_, err := s.exec(cmd)
		require.NoError(t, err, cmd)
	}
	out, err := s.exec([]string{"events"})
	require.NoError(t, err)
	require.Equal(t, "RB5 1\nRB5 0", out)

	_, err = s.exec([]string{"disconnect", "RB5", "both"})
	require.NoError(t, err)
	_, err = s.exec([]string{"disconnect", "RB5", "both"})
	require.ErrorIs(t, err, errcode.NotConnected)
}

func TestExternalLineEvents(t *testing.T) {
	s := newTestSession(t, sim.Options{})
	_, err := s.exec([]string{"ext", "1", "RD0", "rising"})
	require.NoError(t, err)
	_, err = s.exec([]string{"ext", "1", "RB0", "rising"})
	require.ErrorIs(t, err, errcode.Incompatible)

	for _, lvl := range []string{"1", "0", "1"} {
		_, err := s.exec([]string{"drive", "RD0", lvl})
		require.NoError(t, err)
	}
	out, err := s.exec([]string{"events"})
	require.NoError(t, err)
	require.Equal(t, "RD0 1\nRD0 1", out)

	_, err = s.exec([]string{"unext", "1"})
	require.NoError(t, err)
	_, err = s.exec([]string{"unext", "1"})
	require.ErrorIs(t, err, errcode.NotConnected)
}

func TestManualTickAndFlush(t *testing.T) {
	s := newTestSession(t, sim.Options{Manual: true})
	var out bytes.Buffer
	script := `
open 2 9600 8E1
write 2 hello
sent 2
tick 2 5
sent 2
flush 2 50ms
`
	require.NoError(t, runScript(s, strings.NewReader(script), &out))
	require.Contains(t, out.String(), "\"\"\n\"hello\"")
}

func TestFatalReportsOnConsole(t *testing.T) {
	s := newTestSession(t, sim.Options{})
	out, err := s.exec([]string{"fatal", "oom", "rx"})
	require.NoError(t, err)
	require.Equal(t, "out of memory", out)
	require.Equal(t, "\r\nFATAL out of memory: rx\r\n", string(s.chip.Sent(0)))
}

func TestParseText(t *testing.T) {
	p, err := parseText([]string{`say "hi"\r\n`, "x"})
	require.NoError(t, err)
	require.Equal(t, "say \"hi\"\r\n x", string(p))
	_, err = parseText([]string{`bad\q`})
	require.Error(t, err)
}
