package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/verin/lumitrack/internal/chart"
	"github.com/verin/lumitrack/internal/config"
	"github.com/verin/lumitrack/internal/render"
	"github.com/verin/lumitrack/internal/render/ebitenr"
)

// Program runs one chart: it owns the clock, the audio stream, and the
// track renderer, and steps them from the ebiten game loop.
type Program struct {
	backend *ebitenr.Backend
	track   *render.TrackRenderer

	start    time.Time
	endTime  float64
	streamer beep.StreamSeekCloser
}

func NewProgram(ch *chart.Chart, batch *render.Batch, chartFile string) (*Program, error) {
	backend := ebitenr.New(*config.Width, *config.Height)
	track, err := render.NewTrackRenderer(backend, batch)
	if nil != err {
		return nil, err
	}

	// The camera sits behind the judgment plane at z = 0 and looks down
	// the track; notes scroll toward it as the runner advances.
	projection := mgl32.Perspective(mgl32.DegToRad(60),
		float32(*config.Width)/float32(*config.Height), 0.1, 200)
	view := mgl32.LookAtV(
		mgl32.Vec3{0, 1.6, -2.4},
		mgl32.Vec3{0, 0, 4},
		mgl32.Vec3{0, 1, 0})
	track.SetViewProjection(projection.Mul4(view))

	p := &Program{
		backend: backend,
		track:   track,
		start:   time.Now(),
		endTime: chartEndTime(ch),
	}

	if err := p.startAudio(ch, chartFile); nil != err {
		// A chart with no audio still scrolls.
		log.Println("unable to start audio", err)
	}
	return p, nil
}

func (p *Program) Deinit() {
	if nil != p.streamer {
		p.streamer.Close()
	}
}

// startAudio decodes the chart's song and schedules playback after the
// start delay, resampled for the playback rate.
func (p *Program) startAudio(ch *chart.Chart, chartFile string) error {
	audioFile, err := findAudio(ch, chartFile)
	if nil != err {
		return err
	}
	f, err := os.Open(audioFile)
	if nil != err {
		return err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	if path.Ext(audioFile) == ".ogg" {
		streamer, format, err = vorbis.Decode(f)
	} else {
		streamer, format, err = mp3.Decode(f)
	}
	if nil != err {
		f.Close()
		return err
	}
	p.streamer = streamer

	err = speaker.Init(
		beep.SampleRate(math.Round(float64(format.SampleRate)*(*config.Rate))),
		format.SampleRate.N(time.Second/60))
	if nil != err {
		return err
	}

	go func() {
		time.Sleep(*config.Delay)
		speaker.Play(streamer)
	}()
	return nil
}

func findAudio(ch *chart.Chart, chartFile string) (string, error) {
	dir := filepath.Dir(chartFile)
	if ch.Header.AudioFilename != "" {
		return filepath.Join(dir, ch.Header.AudioFilename), nil
	}

	var found string
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch path.Ext(info.Name()) {
		case ".mp3", ".ogg":
			found = p
		}
		return nil
	}); nil != err {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("unable to find .mp3/.ogg file in %v", dir)
	}
	return found, nil
}

func chartEndTime(ch *chart.Chart) float64 {
	end := 0.0
	for _, n := range ch.Notes.Hits {
		end = math.Max(end, n.Position.Time)
	}
	for _, n := range ch.Notes.Contacts {
		end = math.Max(end, n.Position.Time)
	}
	for _, n := range ch.Notes.Flicks {
		end = math.Max(end, n.Position.Time)
	}
	for _, n := range ch.Notes.Evades {
		end = math.Max(end, n.Movement.Trigger+n.Movement.Duration)
	}
	for _, n := range ch.Notes.Holds {
		for _, pt := range n.Points {
			end = math.Max(end, pt.Time)
		}
	}
	return end
}

// now is the chart clock in seconds: time since launch minus the start
// delay, scaled by the playback rate, shifted by the global offset.
func (p *Program) now() float64 {
	elapsed := time.Since(p.start) - *config.Delay
	return elapsed.Seconds()*(*config.Rate) + config.Offset.Seconds()
}

func (p *Program) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	now := p.now()
	if now > p.endTime+5 {
		return ebiten.Termination
	}

	pos := float32(now * *config.BaseDepthSpeed * *config.RunnerSpeed)
	return p.track.SetRunnerPosition(pos, now)
}

func (p *Program) Draw(screen *ebiten.Image) {
	if err := p.track.Render(); nil != err {
		log.Println("unable to render frame", err)
		return
	}
	p.backend.Draw(screen)
}

func (p *Program) Layout(outsideWidth, outsideHeight int) (int, int) {
	return *config.Width, *config.Height
}
