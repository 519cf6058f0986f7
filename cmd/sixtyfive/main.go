// Command sixtyfive loads a flat binary image into memory, runs it on the
// cycle-accurate 65xx engine, and drops into an interactive REPL whenever
// the CPU jams or hits a breakpoint.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/sixtyfive/sixtyfive/internal/bus"
	"github.com/sixtyfive/sixtyfive/internal/cpu"
	"github.com/sixtyfive/sixtyfive/internal/debug"
	"github.com/sixtyfive/sixtyfive/internal/disasm"
)

func main() {
	app := cli.NewApp()
	app.Name = "sixtyfive"
	app.Usage = "sixtyfive [options] <image file>"
	app.Description = "a cycle-accurate MOS 65xx CPU emulator"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "model", Value: "6502", Usage: "chip model: 6502, 6507, 6510, 8502"},
		cli.StringFlag{Name: "load-at", Value: "0x0600", Usage: "address to load the image at"},
		cli.StringFlag{Name: "reset-vector", Usage: "override the reset vector (default: read $FFFC/$FFFD from the image)"},
		cli.StringFlag{Name: "break-at", Usage: "comma-separated list of breakpoint addresses"},
		cli.StringFlag{Name: "watch", Usage: "comma-separated list of watchpoint addresses"},
		cli.IntFlag{Name: "max-instructions", Value: 0, Usage: "stop after N instructions (0 = unlimited)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("sixtyfive exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return errors.New("no image file provided")
	}
	path := c.Args().Get(0)

	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	loadAt, err := parseUint16(c.String("load-at"))
	if err != nil {
		return fmt.Errorf("parsing --load-at: %w", err)
	}

	model, err := parseModel(c.String("model"))
	if err != nil {
		return err
	}

	ram := bus.NewRAM()
	ram.Load(loadAt, image)

	var memBus cpu.Bus = ram
	if model.HasPort {
		memBus = bus.NewPort(ram, nil)
	}

	engine := cpu.NewCPU(model, memBus)

	if v := c.String("reset-vector"); v != "" {
		resetAt, err := parseUint16(v)
		if err != nil {
			return fmt.Errorf("parsing --reset-vector: %w", err)
		}
		ram.Write(0xFFFC, uint8(resetAt))
		ram.Write(0xFFFD, uint8(resetAt>>8))
	}

	rec := debug.NewRecorder()
	engine.SetDelegate(rec)

	for _, s := range splitAddrs(c.String("break-at")) {
		addr, err := parseUint16(s)
		if err != nil {
			return fmt.Errorf("parsing --break-at: %w", err)
		}
		engine.AddBreakpoint(addr)
	}
	for _, s := range splitAddrs(c.String("watch")) {
		addr, err := parseUint16(s)
		if err != nil {
			return fmt.Errorf("parsing --watch: %w", err)
		}
		engine.AddWatchpoint(addr)
	}

	engine.Reset()
	slog.Info("loaded image", "path", path, "load_at", fmt.Sprintf("$%04X", loadAt), "size", len(image), "model", model.Name, "reset_pc", fmt.Sprintf("$%04X", engine.PC()))

	maxInstr := c.Int("max-instructions")
	repl := &repl{engine: engine, bus: memBus, rec: rec, mode: debug.ModeRun}
	return repl.run(maxInstr)
}

type repl struct {
	engine *cpu.CPU
	bus    cpu.Bus
	rec    *debug.Recorder
	mode   debug.StepMode
}

func (r *repl) run(maxInstructions int) error {
	count := 0
	in := bufio.NewScanner(os.Stdin)
	for {
		if r.engine.IsJammed() || r.rec.LastBreakpoint != nil || r.mode == debug.ModeSingleStep {
			if !r.interact(in) {
				return nil
			}
			continue
		}

		r.engine.StepInstruction()
		count++
		if r.rec.LastWatchpoint != nil {
			w := r.rec.LastWatchpoint
			slog.Info("watchpoint hit", "addr", fmt.Sprintf("$%04X", w.Addr), "kind", w.Kind, "val", fmt.Sprintf("$%02X", w.Val))
			r.rec.LastWatchpoint = nil
			r.mode = debug.ModeSingleStep
		}
		if maxInstructions > 0 && count >= maxInstructions {
			slog.Info("reached max-instructions", "count", count)
			return nil
		}
	}
}

// interact runs one REPL command and reports whether the loop should
// continue.
func (r *repl) interact(in *bufio.Scanner) bool {
	fmt.Println(debug.Snapshot(r.engine).String())
	if r.engine.IsJammed() {
		fmt.Println("CPU is jammed; reset required")
	}
	if r.rec.LastBreakpoint != nil {
		fmt.Printf("breakpoint at $%04X\n", *r.rec.LastBreakpoint)
		r.rec.LastBreakpoint = nil
	}
	line := disasm.DisassembleAt(r.engine.PC(), r.bus.ReadDasm)
	fmt.Printf("%04X: %s\n", line.Addr, line.Text)
	fmt.Print("(sixtyfive) ")

	if !in.Scan() {
		return false
	}
	fields := strings.Fields(in.Text())
	if len(fields) == 0 {
		r.mode = debug.ModeSingleStep
		r.engine.StepInstruction()
		return true
	}

	switch fields[0] {
	case "c", "continue":
		r.mode = debug.ModeRun
	case "s", "step":
		r.mode = debug.ModeSingleStep
		r.engine.StepInstruction()
	case "r", "regs":
		// snapshot already printed above.
	case "m", "mem":
		if len(fields) < 2 {
			fmt.Println("usage: mem <addr> [length]")
			break
		}
		addr, err := parseUint16(fields[1])
		if err != nil {
			fmt.Println(err)
			break
		}
		length := 64
		if len(fields) > 2 {
			if n, err := strconv.Atoi(fields[2]); err == nil {
				length = n
			}
		}
		fmt.Print(debug.ReadMemorySnapshot(addr, length, r.bus.ReadDasm).HexDump())
	case "reset":
		r.engine.Reset()
	case "q", "quit":
		return false
	default:
		fmt.Println("commands: continue, step, regs, mem <addr> [len], reset, quit")
	}
	return true
}

func parseModel(name string) (cpu.Model, error) {
	switch strings.ToLower(name) {
	case "6502":
		return cpu.Models[cpu.MOS6502], nil
	case "6507":
		return cpu.Models[cpu.MOS6507], nil
	case "6510":
		return cpu.Models[cpu.MOS6510], nil
	case "8502":
		return cpu.Models[cpu.MOS8502], nil
	default:
		return cpu.Model{}, fmt.Errorf("unknown model %q", name)
	}
}

func parseUint16(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "$") {
		s = s[1:]
		base = 16
	} else if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(v), nil
}

func splitAddrs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
