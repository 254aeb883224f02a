package pool

// ComputeShares returns a copy of players with CurrentShare recomputed.
//
// Active players split the pool by inverse weight: each gets
// maxActiveScore - score + 1, so the lowest total holds the largest stake
// and the worst active player still holds a weight of 1. When every active
// total is zero the split is equal. Non-active players always get 0.
func ComputeShares(players []Player) []Player {
	out := clonePlayers(players)

	active := 0
	allZero := true
	top := 0
	for _, p := range out {
		if p.Status != StatusActive {
			continue
		}
		active++
		if p.TotalScore != 0 {
			allZero = false
		}
		if p.TotalScore > top {
			top = p.TotalScore
		}
	}

	if active == 0 {
		for i := range out {
			out[i].CurrentShare = 0
		}
		return out
	}

	if allZero {
		equal := 1 / float64(active)
		for i := range out {
			if out[i].Status == StatusActive {
				out[i].CurrentShare = equal
			} else {
				out[i].CurrentShare = 0
			}
		}
		return out
	}

	total := 0
	for _, p := range out {
		if p.Status == StatusActive {
			total += top - p.TotalScore + 1
		}
	}
	for i := range out {
		if out[i].Status != StatusActive {
			out[i].CurrentShare = 0
			continue
		}
		out[i].CurrentShare = float64(top-out[i].TotalScore+1) / float64(total)
	}
	return out
}

// ActivePlayers returns the active players in join order.
func ActivePlayers(players []Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if p.Status == StatusActive {
			out = append(out, p)
		}
	}
	return out
}

// MaxActiveScore is the highest total among active players, 0 if none.
func MaxActiveScore(players []Player) int {
	top := 0
	for _, p := range players {
		if p.Status == StatusActive && p.TotalScore > top {
			top = p.TotalScore
		}
	}
	return top
}

// LeadingPlayers returns the ids of the active players sharing the lowest total.
func LeadingPlayers(players []Player) []string {
	active := ActivePlayers(players)
	if len(active) == 0 {
		return []string{}
	}
	low := active[0].TotalScore
	for _, p := range active[1:] {
		if p.TotalScore < low {
			low = p.TotalScore
		}
	}
	out := []string{}
	for _, p := range active {
		if p.TotalScore == low {
			out = append(out, p.ID)
		}
	}
	return out
}

// FindPlayer returns the index of the player with id, or -1.
func FindPlayer(players []Player, id string) int {
	for i, p := range players {
		if p.ID == id {
			return i
		}
	}
	return -1
}
