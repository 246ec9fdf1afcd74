// Command vgmplay plays a VGM (or gzipped VGZ) log of Sega Mega
// Drive/Genesis YM2612 and SN76489 register writes, either to the
// default audio device or to a raw s16le PCM file.
package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/h1romas4/m5stack-synth-emulation/internal/audio"
	"github.com/h1romas4/m5stack-synth-emulation/internal/player"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: vgmplay [-loop] [-out file.pcm] <file.vgm|file.vgz>")
}

func main() {
	args := os.Args[1:]

	loop := false
	outPath := ""

	var positional []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-loop":
			loop = true
		case "-out":
			i++
			if i >= len(args) {
				usage()
				os.Exit(1)
			}
			outPath = args[i]
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) != 1 {
		usage()
		os.Exit(1)
	}

	data, err := loadVGM(positional[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "vgmplay:", err)
		os.Exit(1)
	}

	p, err := player.New(data, loop)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vgmplay:", err)
		os.Exit(1)
	}
	p.OnUnknownCommand(func(cmd byte, pos uint32) {
		fmt.Fprintf(os.Stderr, "vgmplay: unknown command %#02x at offset %#x, skipping\n", cmd, pos)
	})

	if outPath != "" {
		if err := renderToFile(p, outPath); err != nil {
			fmt.Fprintln(os.Stderr, "vgmplay:", err)
			os.Exit(1)
		}
		return
	}

	if err := playLive(p); err != nil {
		fmt.Fprintln(os.Stderr, "vgmplay:", err)
		os.Exit(1)
	}
}

// loadVGM reads the named file and transparently ungzips it if it looks
// like a VGZ (gzip-wrapped VGM). Grounded on the gzip-sniffing pattern in
// the reference implementation's vgm_parser.go.
func loadVGM(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) >= 2 && raw[0] == 0x1F && raw[1] == 0x8B {
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}
	return raw, nil
}

func renderToFile(p *player.Player, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sink := audio.NewFileSink(f)
	buf := make([]int16, player.SampleRate/10*2) // ~100ms chunks

	for {
		n := p.RenderInto(buf)
		if n == 0 {
			break
		}
		if err := sink.Write(buf[:n*2]); err != nil {
			return err
		}
		if p.Ended() {
			break
		}
	}
	return sink.Flush()
}

func playLive(p *player.Player) error {
	out, err := audio.NewLivePlayer(player.SampleRate)
	if err != nil {
		return err
	}
	defer out.Close()

	out.SetSource(p)
	out.Start()

	for !p.Ended() {
		time.Sleep(100 * time.Millisecond)
	}
	out.Stop()
	return nil
}
