package names

// DefaultPopularity weights well-known ODI players so that near-tied matches
// resolve to the name users most likely meant. Both the short scorecard form
// and the full name are listed.
var DefaultPopularity = map[string]int{
	"V Kohli":          100,
	"Virat Kohli":      100,
	"Rohit Sharma":     95,
	"MS Dhoni":         95,
	"AB de Villiers":   90,
	"JJ Bumrah":        90,
	"B Lee":            90,
	"Brett Lee":        90,
	"GD McGrath":       88,
	"Glenn McGrath":    88,
	"SR Tendulkar":     85,
	"Sachin Tendulkar": 85,
	"CH Gayle":         85,
	"Chris Gayle":      85,
	"MG Johnson":       85,
	"Mitchell Johnson": 85,
	"DA Warner":        80,
	"David Warner":     80,
	"RA Jadeja":        80,
	"Ravindra Jadeja":  80,
	"SK Raina":         80,
	"Suresh Raina":     80,
	"YZ Chahal":        78,
	"HH Pandya":        75,
	"Hardik Pandya":    75,
	"KL Rahul":         75,
	"YK Pathan":        75,
	"Rashid Khan":      73,
	"HV Patel":         72,
	"Harshal Patel":    72,
	"DJ Bravo":         70,
	"Dwayne Bravo":     70,
	"R Ashwin":         70,
	"SA Yadav":         70,
	"Suryakumar Yadav": 70,
	"SL Malinga":       68,
	"Lasith Malinga":   68,
	"AD Russell":       67,
	"Andre Russell":    67,
	"PP Shaw":          65,
	"SS Iyer":          65,
	"KA Pollard":       65,
	"Kieron Pollard":   65,
}

// MergePopularity returns base overlaid with overrides. Neither map is modified.
func MergePopularity(base, overrides map[string]int) map[string]int {
	out := make(map[string]int, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
