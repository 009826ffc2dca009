package diff

// component is an edit run before its text is resolved.
type component struct {
	count   int
	added   bool
	removed bool
}

// path is the furthest-reaching point found on one diagonal.
type path struct {
	newPos     int
	components []component
}

func (p *path) clone() *path {
	return &path{
		newPos:     p.newPos,
		components: append([]component(nil), p.components...),
	}
}

func (p *path) push(added, removed bool) {
	if n := len(p.components); n > 0 {
		last := &p.components[n-1]
		if last.added == added && last.removed == removed {
			last.count++
			return
		}
	}
	p.components = append(p.components, component{count: 1, added: added, removed: removed})
}

type search struct {
	engine    *Engine
	oldTokens []string
	newTokens []string
}

func (s *search) run() (EditScript, error) {
	oldLen, newLen := len(s.oldTokens), len(s.newTokens)
	if oldLen == 0 && newLen == 0 {
		return EditScript{}, nil
	}

	maxEditLength := oldLen + newLen
	if limit := s.engine.MaxEditLength; limit > 0 && limit < maxEditLength {
		maxEditLength = limit
	}

	// bestPath[offset+k] holds the furthest path on diagonal k.
	offset := maxEditLength + 1
	bestPath := make([]*path, 2*maxEditLength+3)
	bestPath[offset] = &path{newPos: -1}

	oldPos := s.extractCommon(bestPath[offset], 0)
	if bestPath[offset].newPos+1 >= newLen && oldPos+1 >= oldLen {
		return EditScript{{Value: s.engine.join(s.newTokens), Count: newLen}}, nil
	}

	for editLength := 1; editLength <= maxEditLength; editLength++ {
		for diagonal := -editLength; diagonal <= editLength; diagonal += 2 {
			addPath := bestPath[offset+diagonal-1]
			removePath := bestPath[offset+diagonal+1]
			oldPos := -diagonal
			if removePath != nil {
				oldPos = removePath.newPos - diagonal
			}
			if addPath != nil {
				// Nothing else reads this diagonal again.
				bestPath[offset+diagonal-1] = nil
			}

			canAdd := addPath != nil && addPath.newPos+1 < newLen
			canRemove := removePath != nil && oldPos >= 0 && oldPos < oldLen
			if !canAdd && !canRemove {
				bestPath[offset+diagonal] = nil
				continue
			}

			// Branch from whichever neighbour reached further into the new tokens.
			var base *path
			if !canAdd || (canRemove && addPath.newPos < removePath.newPos) {
				base = removePath.clone()
				base.push(false, true)
			} else {
				base = addPath
				base.newPos++
				base.push(true, false)
			}

			oldPos = s.extractCommon(base, diagonal)
			if base.newPos+1 >= newLen && oldPos+1 >= oldLen {
				return s.buildValues(base.components), nil
			}
			bestPath[offset+diagonal] = base
		}
	}

	return nil, ErrMaxEditLength
}

// extractCommon follows the snake of equal tokens from p along diagonal and
// returns the resulting old position.
func (s *search) extractCommon(p *path, diagonal int) int {
	newPos := p.newPos
	oldPos := newPos - diagonal
	common := 0
	for newPos+1 < len(s.newTokens) && oldPos+1 < len(s.oldTokens) &&
		s.engine.equals(s.newTokens[newPos+1], s.oldTokens[oldPos+1]) {
		newPos++
		oldPos++
		common++
	}
	if common > 0 {
		p.components = append(p.components, component{count: common})
	}
	p.newPos = newPos
	return oldPos
}

func (s *search) buildValues(components []component) EditScript {
	script := make(EditScript, len(components))
	newPos, oldPos := 0, 0

	for i, c := range components {
		change := Change{Count: c.count, Added: c.added, Removed: c.removed}
		if !c.removed {
			tokens := s.newTokens[newPos : newPos+c.count]
			if !c.added && s.engine.UseLongestToken {
				tokens = s.longest(tokens, oldPos)
			}
			change.Value = s.engine.join(tokens)
			newPos += c.count
			if !c.added {
				oldPos += c.count
			}
		} else {
			change.Value = s.engine.join(s.oldTokens[oldPos : oldPos+c.count])
			oldPos += c.count

			// Removals are reported before the additions they replace.
			if i > 0 && script[i-1].Added {
				script[i-1], change = change, script[i-1]
			}
		}
		script[i] = change
	}

	// A trailing change that only differs in ignorable content (such as
	// whitespace) is merged into the segment before it.
	if n := len(script); n > 1 {
		last := script[n-1]
		if (last.Added || last.Removed) && s.engine.equals("", last.Value) {
			script[n-2].Value += last.Value
			script = script[:n-1]
		}
	}

	return script
}

func (s *search) longest(newTokens []string, oldPos int) []string {
	out := make([]string, len(newTokens))
	for i, t := range newTokens {
		if old := s.oldTokens[oldPos+i]; len(old) > len(t) {
			t = old
		}
		out[i] = t
	}
	return out
}
