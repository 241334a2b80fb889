package chart

// Note and lane kinds are closed enumerations with an explicit Unknown
// value. Chart formats that introduce codes we do not recognize map to
// Unknown and still render, with a warning, using a fallback appearance.

type HitKind uint8

const (
	HitWallLeft HitKind = iota
	HitWallRight
	HitLaneLeft
	HitLaneCenter
	HitLaneRight
	HitUnknown
)

type LaneKind uint8

const (
	LaneLeft LaneKind = iota
	LaneCenter
	LaneRight
	LaneEnemy
	LaneUnknown
)

type ContactKind uint8

const (
	Contact1 ContactKind = iota
	Contact2
	ContactUnknown
)

type EvadeKind uint8

const (
	Evade1 EvadeKind = iota
	Evade2
	Evade3
	Evade4
	EvadeUnknown
)

type FlickDirection uint8

const (
	FlickLeft FlickDirection = iota
	FlickRight
)
