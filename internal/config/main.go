package config

import (
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Directory      = kingpin.Arg("directory", "Song/chart directory").Required().ExistingDir()
	Rate           = kingpin.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64()
	Offset         = kingpin.Flag("offset", "Global audio offset").Default("0ms").Short('o').Duration()
	Delay          = kingpin.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration()
	RunnerSpeed    = kingpin.Flag("runner-speed", "Forward movement speed").Default("15.0").Short('s').Float()
	BaseDepthSpeed = kingpin.Flag("depth-speed", "Track depth per second of chart time").Default("1.0").Float()
	LateralScale   = kingpin.Flag("lateral-scale", "World units per lane").Default("1.0").Float()
	Width          = kingpin.Flag("width", "Window width").Default("1280").Int()
	Height         = kingpin.Flag("height", "Window height").Default("720").Int()
	CatalogPath    = kingpin.Flag("catalog", "Chart catalog database file").Default("./charts.db").String()
	Headless       = kingpin.Flag("headless", "Run without a window, validating only").Bool()
	HeadlessFrames = kingpin.Flag("headless-frames", "Frames to simulate when headless").Default("240").Int()
)

func init() {
	kingpin.Version("0.1.0")
	kingpin.Parse()
}
