package simulate

import "github.com/signspeak/rt-glove-wrapper/internal/glove"

// poses holds normalized bend fractions per finger for each supported
// letter, ordered thumb to pinky. 0 is fully straight, 1 fully bent. The
// values approximate the static fingerspelling handshapes.
var poses = map[rune]glove.Sample{
	'A': {0.30, 0.95, 0.95, 0.95, 0.95},
	'B': {0.80, 0.05, 0.05, 0.05, 0.05},
	'C': {0.45, 0.50, 0.50, 0.50, 0.50},
	'D': {0.55, 0.05, 0.80, 0.85, 0.85},
	'E': {0.70, 0.85, 0.85, 0.85, 0.85},
	'F': {0.50, 0.60, 0.10, 0.10, 0.10},
	'I': {0.70, 0.90, 0.90, 0.90, 0.05},
	'K': {0.30, 0.10, 0.15, 0.90, 0.90},
	'L': {0.05, 0.05, 0.90, 0.90, 0.90},
	'M': {0.90, 0.70, 0.70, 0.70, 0.90},
	'O': {0.55, 0.60, 0.60, 0.60, 0.60},
	'U': {0.70, 0.05, 0.10, 0.90, 0.90},
	'V': {0.70, 0.05, 0.15, 0.85, 0.90},
	'W': {0.75, 0.05, 0.10, 0.10, 0.85},
	'Y': {0.05, 0.90, 0.90, 0.90, 0.05},
}

// restPose is the open relaxed hand all transitions start from.
var restPose = glove.Sample{0.05, 0.05, 0.05, 0.05, 0.05}
