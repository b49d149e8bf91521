package pet

var criticalEmojis = [NeedCount]string{
	StatusEmojiHungry,
	StatusEmojiSick,
	StatusEmojiSad,
	StatusEmojiTired,
}

// GetStatus returns the status emoji(s) for the pet
func GetStatus(p *Pet) string {
	if p.Level == LevelEgg {
		return StatusEmojiEgg
	}

	// Icon 1: Activity
	activity := StatusEmojiHappy
	switch {
	case p.Evolving && p.Sleeping:
		activity = StatusEmojiEvolving
	case p.Sleeping:
		activity = StatusEmojiSleeping
	}

	// Icon 2: the lowest need still raising its alarm
	var feeling string
	lowest := MaxNeed + 1
	for _, n := range p.needs {
		if n.Alarmed() && n.Current < lowest {
			lowest = n.Current
			feeling = criticalEmojis[n.Kind]
		}
	}
	return activity + feeling
}

// GetStatusWithLabel returns status with a text label for the UI
func GetStatusWithLabel(p *Pet) string {
	status := GetStatus(p)
	switch {
	case p.Level == LevelEgg:
		return status + " Waiting to hatch"
	case p.Evolving && p.Sleeping:
		return status + " Incubating"
	case p.Sleeping:
		return status + " Sleeping"
	}
	for _, n := range p.needs {
		if n.Alarmed() {
			return status + " Needs " + n.Kind.String()
		}
	}
	return status + " Happy"
}
