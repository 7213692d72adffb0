package domain

import "math"

// CalcLevel returns the level reached with the given experience.
// The float result is truncated, matching values already stored for existing players.
func CalcLevel(experience int) int {
	return int((math.Sqrt(float64(2500+200*experience)) - 50) / 100)
}

// CalcUntilNextLevel returns the experience still needed to reach the next level.
func CalcUntilNextLevel(experience int) int {
	level := CalcLevel(experience)
	return 50*(level+1)*(level+2) - experience
}

// RecalculateStats derives Level and UntilNextLevel from Experience.
func (p *Player) RecalculateStats() {
	p.Level = CalcLevel(p.Experience)
	p.UntilNextLevel = 50*(p.Level+1)*(p.Level+2) - p.Experience
}
