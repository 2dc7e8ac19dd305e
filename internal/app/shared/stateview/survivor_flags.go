package stateview

import "resurgent/internal/domain/city"

// SurvivorFlags lists the conditions worth surfacing next to a survivor.
func SurvivorFlags(sv city.Survivor) []string {
	flags := make([]string, 0, 4)
	if sv.IsSick {
		flags = append(flags, "SICK")
	} else if sv.Health < city.SickHealthThreshold {
		flags = append(flags, "INJURED")
	}
	if sv.Morale < city.DespairThreshold {
		flags = append(flags, "DESPAIRING")
	} else if sv.Morale < city.LowMoraleThreshold {
		flags = append(flags, "LOW_MORALE")
	}
	if sv.Available() {
		flags = append(flags, "IDLE")
	}
	return flags
}

// FlagsByID maps every survivor to its flags.
func FlagsByID(state city.WorldState) map[string][]string {
	out := make(map[string][]string, len(state.Survivors))
	for _, sv := range state.Survivors {
		out[sv.ID] = SurvivorFlags(sv)
	}
	return out
}
