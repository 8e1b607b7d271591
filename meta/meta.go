// meta/meta.go
package meta

// MAX_TURNS is the turn ceiling of a race.
const MAX_TURNS = 300

// MAX_FIXPOINT_PASSES bounds the reaction passes of a single step.
const MAX_FIXPOINT_PASSES = 64

// RACES defines the number of races in a series.
const RACES = 1

// SEED defines the default seed for dice and random policies.
const SEED = 1
