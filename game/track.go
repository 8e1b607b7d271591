package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// TrackLength is the number of spaces on the preset tracks, START and FINISH included.
const TrackLength = 31

type TrackVersion string

const (
	Mild   TrackVersion = "mild"
	Wild   TrackVersion = "wild"
	Custom TrackVersion = "custom"
)

type SpaceProperty string

const (
	Start       SpaceProperty = "START"
	Finish      SpaceProperty = "FINISH"
	Star        SpaceProperty = "STAR_1"
	TripSpace   SpaceProperty = "TRIP"
	ArrowPlus1  SpaceProperty = "ARROW_+1"
	ArrowPlus2  SpaceProperty = "ARROW_+2"
	ArrowPlus3  SpaceProperty = "ARROW_+3"
	ArrowPlus4  SpaceProperty = "ARROW_+4"
	ArrowMinus1 SpaceProperty = "ARROW_-1"
	ArrowMinus2 SpaceProperty = "ARROW_-2"
	ArrowMinus3 SpaceProperty = "ARROW_-3"
	ArrowMinus4 SpaceProperty = "ARROW_-4"
)

var arrowDeltas = map[SpaceProperty]int{
	ArrowPlus1: 1, ArrowPlus2: 2, ArrowPlus3: 3, ArrowPlus4: 4,
	ArrowMinus1: -1, ArrowMinus2: -2, ArrowMinus3: -3, ArrowMinus4: -4,
}

// Arrow returns the movement of an arrow property.
func (p SpaceProperty) Arrow() (int, bool) {
	delta, ok := arrowDeltas[p]
	return delta, ok
}

func (p SpaceProperty) valid() bool {
	_, arrow := p.Arrow()
	return arrow || p == Start || p == Finish || p == Star || p == TripSpace
}

var (
	ErrUnknownTrack = errors.New("unknown track version")
	ErrArrowCycle   = errors.New("arrow chain revisits a space")
	ErrInvalidTrack = errors.New("invalid track")
)

// Track is the static race course. Spaces[i] holds the properties of space i.
type Track struct {
	Version TrackVersion      `json:"version"`
	Name    string            `json:"name"`
	Spaces  [][]SpaceProperty `json:"spaces"`
}

// trackFile is the yaml layout of a track definition.
type trackFile struct {
	Version TrackVersion            `yaml:"version"`
	Name    string                  `yaml:"name"`
	Length  int                     `yaml:"length"`
	Spaces  map[int][]SpaceProperty `yaml:"spaces"`
}

//go:embed tracks.yaml
var presetData []byte

var (
	presets     map[TrackVersion]*Track
	presetsOnce sync.Once
)

func loadPresets() {
	var files []trackFile
	if err := yaml.Unmarshal(presetData, &files); err != nil {
		panic(fmt.Sprintf("failed to parse track presets: %v", err))
	}
	presets = make(map[TrackVersion]*Track, len(files))
	for _, f := range files {
		t, err := f.build()
		if err != nil {
			panic(fmt.Sprintf("invalid track preset %q: %v", f.Version, err))
		}
		presets[t.Version] = t
	}
}

// NewTrack returns the preset track of the given version.
func NewTrack(version TrackVersion) (*Track, error) {
	presetsOnce.Do(loadPresets)
	t, ok := presets[version]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, version)
	}
	return t.copy(), nil
}

// MustTrack is NewTrack for versions known to exist.
func MustTrack(version TrackVersion) *Track {
	t, err := NewTrack(version)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTrack reads a custom track definition from a yaml file.
func LoadTrack(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read track file: %w", err)
	}
	var f trackFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse track file: %w", err)
	}
	if f.Version == "" {
		f.Version = Custom
	}
	return f.build()
}

// NewCustomTrack builds a track of the given length with extra properties per space.
func NewCustomTrack(name string, length int, spaces map[int][]SpaceProperty) (*Track, error) {
	return trackFile{Version: Custom, Name: name, Length: length, Spaces: spaces}.build()
}

func (f trackFile) build() (*Track, error) {
	if f.Length == 0 {
		f.Length = TrackLength
	}
	if f.Length < 2 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidTrack, f.Length)
	}
	t := &Track{Version: f.Version, Name: f.Name, Spaces: make([][]SpaceProperty, f.Length)}
	t.Spaces[0] = []SpaceProperty{Start}
	t.Spaces[f.Length-1] = []SpaceProperty{Finish}
	for space, props := range f.Spaces {
		if space < 0 || space >= f.Length {
			return nil, fmt.Errorf("%w: space %d outside track", ErrInvalidTrack, space)
		}
		for _, p := range props {
			if !slices.Contains(t.Spaces[space], p) {
				t.Spaces[space] = append(t.Spaces[space], p)
			}
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks every property and rejects arrow chains that loop.
func (t *Track) Validate() error {
	for space, props := range t.Spaces {
		arrows := 0
		for _, p := range props {
			if !p.valid() {
				return fmt.Errorf("%w: unknown property %q on space %d", ErrInvalidTrack, p, space)
			}
			if _, ok := p.Arrow(); ok {
				arrows++
			}
		}
		if arrows > 1 {
			return fmt.Errorf("%w: space %d has %d arrows", ErrInvalidTrack, space, arrows)
		}
	}
	for space := range t.Spaces {
		visited := map[int]bool{}
		for pos, ok := space, true; ok; pos, ok = t.arrowTarget(pos) {
			if visited[pos] {
				return fmt.Errorf("%w: starting at space %d", ErrArrowCycle, space)
			}
			visited[pos] = true
		}
	}
	return nil
}

func (t *Track) arrowTarget(space int) (int, bool) {
	for _, p := range t.PropertiesAt(space) {
		if delta, ok := p.Arrow(); ok {
			return t.NewSpace(space, delta), true
		}
	}
	return space, false
}

// Finish returns the index of the last space.
func (t *Track) Finish() int {
	return len(t.Spaces) - 1
}

// Clamp keeps a space inside the track.
func (t *Track) Clamp(space int) int {
	return min(max(space, 0), t.Finish())
}

// NewSpace returns the space reached by moving delta from space.
func (t *Track) NewSpace(space, delta int) int {
	return t.Clamp(space + delta)
}

func (t *Track) PropertiesAt(space int) []SpaceProperty {
	if space < 0 || space >= len(t.Spaces) {
		return nil
	}
	return t.Spaces[space]
}

func (t *Track) copy() *Track {
	c := &Track{Version: t.Version, Name: t.Name, Spaces: make([][]SpaceProperty, len(t.Spaces))}
	for i, props := range t.Spaces {
		c.Spaces[i] = slices.Clone(props)
	}
	return c
}
