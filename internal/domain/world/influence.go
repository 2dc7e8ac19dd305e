package world

// RecomputeInfluence re-derives the explored set from the fort and every scout post.
// Non-fort cells are reset first; cells revealed by a successful expedition keep
// their explored flag. Running it twice in a row yields the same result.
func (g Grid) RecomputeInfluence() {
	g.Each(func(b *Block) {
		if b.Type == BlockFort {
			return
		}
		b.IsExplored = b.RevealedByExpedition
	})

	g.exploreAround(Center(len(g)), FortInfluenceRadius)
	for _, post := range g.scoutPosts() {
		g.exploreAround(post, ScoutPostInfluenceRadius)
	}
}

// InInfluenceZone reports whether p lies within the fort or any scout-post radius.
func (g Grid) InInfluenceZone(p Position) bool {
	if Chebyshev(p, Center(len(g))) <= FortInfluenceRadius {
		return true
	}
	for _, post := range g.scoutPosts() {
		if Chebyshev(p, post) <= ScoutPostInfluenceRadius {
			return true
		}
	}
	return false
}

// ThreatBlocks lists explored, zombie-occupied ruined cells inside the influence zone.
func (g Grid) ThreatBlocks() []*Block {
	var out []*Block
	g.Each(func(b *Block) {
		if b.IsThreat() && b.IsExplored && g.InInfluenceZone(b.Pos()) {
			out = append(out, b)
		}
	})
	return out
}

func (g Grid) AdjacentToExplored(p Position) bool {
	for _, n := range g.Neighbors(p) {
		if n.IsExplored {
			return true
		}
	}
	return false
}

// ZoneCells lists every in-bounds position inside the influence zone.
func (g Grid) ZoneCells() []Position {
	var out []Position
	g.Each(func(b *Block) {
		if g.InInfluenceZone(b.Pos()) {
			out = append(out, b.Pos())
		}
	})
	return out
}

func (g Grid) exploreAround(c Position, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := Position{X: c.X + dx, Y: c.Y + dy}
			if g.InBounds(p) {
				g[p.Y][p.X].Explore()
			}
		}
	}
}

func (g Grid) scoutPosts() []Position {
	var out []Position
	g.Each(func(b *Block) {
		if b.HasScoutPost {
			out = append(out, b.Pos())
		}
	})
	return out
}
