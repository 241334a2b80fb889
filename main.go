package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/eiannone/keyboard"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/term"

	"github.com/verin/lumitrack/internal/catalog"
	"github.com/verin/lumitrack/internal/chart/parse"
	"github.com/verin/lumitrack/internal/config"
	"github.com/verin/lumitrack/internal/render"
	"github.com/verin/lumitrack/internal/render/headless"
	"github.com/verin/lumitrack/internal/scene"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

// selectChart lists the catalog entries and reads a single digit choice.
// With one entry it is returned without prompting.
func selectChart(entries []catalog.Entry) (catalog.Entry, error) {
	if len(entries) == 1 {
		return entries[0], nil
	}

	columns, _, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err {
		columns = 80
	}

	for i, e := range entries {
		line := fmt.Sprintf("%2v) %6.1f  %4v  %v", i, e.Tempo, e.Measures, e.Title)
		if len(line) > columns {
			line = line[:columns]
		}
		fmt.Println(line)
	}

	keyChannel, err := keyboard.GetKeys(8)
	if nil != err {
		return catalog.Entry{}, fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}()

	key := <-keyChannel
	index, err := strconv.ParseInt(string(key.Rune), 10, 64)
	if nil != err || index > int64(len(entries)-1) {
		return catalog.Entry{}, errors.New("unable to read chart selection")
	}
	return entries[index], nil
}

func run() error {
	var psr parse.Parser = &parse.DefaultParser{
		Options: parse.Options{
			BaseDepthSpeed: *config.BaseDepthSpeed,
			LateralScale:   *config.LateralScale,
		},
	}

	var cat catalog.Cataloger = catalog.NewDefaultCatalog(*config.CatalogPath, psr)
	if err := cat.Init(); nil != err {
		return fmt.Errorf("unable to open chart catalog: %w", err)
	}
	defer cat.Deinit()

	if err := cat.Scan(*config.Directory); nil != err {
		return fmt.Errorf("unable to walk song directory: %w", err)
	}
	entries, err := cat.List()
	if nil != err {
		return err
	}
	if len(entries) == 0 {
		return errors.New("unable to find a .trk file in given directory")
	}

	entry, err := selectChart(entries)
	if nil != err {
		return err
	}

	log.Printf("Opening %v\n", entry.Path)
	ch, err := psr.Parse(entry.Path)
	if nil != err {
		return err
	}

	desc := scene.Build(ch, scene.Settings{RunnerSpeed: float32(*config.RunnerSpeed)})
	batch := render.BuildBatch(desc)

	if *config.Headless {
		return runHeadless(batch)
	}

	program, err := NewProgram(ch, batch, entry.Path)
	if nil != err {
		return err
	}
	defer program.Deinit()

	ebiten.SetWindowSize(*config.Width, *config.Height)
	ebiten.SetWindowTitle(ch.Header.Title)
	return ebiten.RunGame(program)
}

// runHeadless plays the chart clock against a validating backend, so a
// chart can be checked end to end on a machine with no display.
func runHeadless(batch *render.Batch) error {
	backend := headless.New()
	track, err := render.NewTrackRenderer(backend, batch)
	if nil != err {
		return err
	}

	for frame := 0; frame < *config.HeadlessFrames; frame++ {
		now := float64(frame) / 60.0
		pos := float32(now * *config.BaseDepthSpeed * *config.RunnerSpeed)
		if err := track.SetRunnerPosition(pos, now); nil != err {
			return err
		}
		if err := track.Render(); nil != err {
			return err
		}
	}

	log.Printf("validated %v frames, %v instance updates\n", backend.Frames, backend.Updates)
	return nil
}
