package dash

// SelectStreams picks the audio representation and the maximum-resolution
// video representation from the manifest. Adaptation sets are positional:
// set 0 carries video, set 1 carries the single audio stream. The video pick
// is the first representation whose width equals the set's declared
// maxWidth; lower widths are skipped and scanning stops at the first match.
func SelectStreams(m *MPD) (audio, video *Representation, err error) {
	if len(m.Periods) == 0 {
		return nil, nil, shapeErrorf("manifest has no Period")
	}
	sets := m.Periods[0].Sets
	if len(sets) < 2 {
		return nil, nil, shapeErrorf("expected two adaptation sets (video, audio), got %d", len(sets))
	}

	videoSet := &sets[0]
	for i := range videoSet.Representations {
		rep := &videoSet.Representations[i]
		if rep.Width < videoSet.MaxWidth {
			continue
		}
		if rep.Width == videoSet.MaxWidth {
			video = rep
		}
		break
	}
	if video == nil {
		return nil, nil, shapeErrorf("no video representation matches declared maxWidth %d", videoSet.MaxWidth)
	}

	audioSet := &sets[1]
	if len(audioSet.Representations) != 1 {
		return nil, nil, shapeErrorf("expected exactly one audio representation, got %d", len(audioSet.Representations))
	}
	audio = &audioSet.Representations[0]

	return audio, video, nil
}
