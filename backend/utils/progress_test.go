package utils

import (
	"testing"

	"learnhub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chapters(flags map[string]bool, order ...string) []models.ChapterProgress {
	out := make([]models.ChapterProgress, 0, len(order))
	for _, id := range order {
		out = append(out, models.ChapterProgress{ChapterID: id, Completed: flags[id]})
	}
	return out
}

func TestMergeSections(t *testing.T) {
	existing := []models.SectionProgress{
		{SectionID: "s1", Chapters: chapters(map[string]bool{"c1": true}, "c1", "c2")},
		{SectionID: "s2", Chapters: chapters(nil, "c3")},
	}

	t.Run("IncomingFlagWins", func(t *testing.T) {
		incoming := []models.SectionProgress{
			{SectionID: "s1", Chapters: []models.ChapterProgress{{ChapterID: "c1", Completed: false}, {ChapterID: "c2", Completed: true}}},
		}

		merged := MergeSections(existing, incoming)

		require.Len(t, merged, 2)
		assert.Equal(t, chapters(map[string]bool{"c2": true}, "c1", "c2"), merged[0].Chapters)
		assert.Equal(t, existing[1], merged[1])
	})

	t.Run("NewEntriesAppended", func(t *testing.T) {
		incoming := []models.SectionProgress{
			{SectionID: "s3", Chapters: chapters(map[string]bool{"c9": true}, "c9")},
			{SectionID: "s2", Chapters: chapters(map[string]bool{"c4": true}, "c4")},
		}

		merged := MergeSections(existing, incoming)

		require.Len(t, merged, 3)
		assert.Equal(t, []string{"s1", "s2", "s3"}, []string{merged[0].SectionID, merged[1].SectionID, merged[2].SectionID})
		assert.Equal(t, chapters(map[string]bool{"c4": true}, "c3", "c4"), merged[1].Chapters)
		assert.Equal(t, incoming[0].Chapters, merged[2].Chapters)
	})

	t.Run("InputsUntouched", func(t *testing.T) {
		incoming := []models.SectionProgress{
			{SectionID: "s1", Chapters: []models.ChapterProgress{{ChapterID: "c1", Completed: false}, {ChapterID: "c7", Completed: true}}},
		}

		MergeSections(existing, incoming)

		assert.True(t, existing[0].Chapters[0].Completed)
		assert.Len(t, existing[0].Chapters, 2)
		assert.Len(t, incoming[0].Chapters, 2)
	})

	t.Run("EmptyIncomingKeepsExisting", func(t *testing.T) {
		assert.Equal(t, existing, MergeSections(existing, nil))
	})

	t.Run("NothingStored", func(t *testing.T) {
		incoming := []models.SectionProgress{{SectionID: "s1"}}

		merged := MergeSections(nil, incoming)

		require.Len(t, merged, 1)
		assert.NotNil(t, merged[0].Chapters)
		assert.Empty(t, merged[0].Chapters)
	})
}

func TestCalculateOverallProgress(t *testing.T) {
	tests := []struct {
		name     string
		sections []models.SectionProgress
		want     float64
	}{
		{name: "no sections", want: 0},
		{name: "sections without chapters", sections: []models.SectionProgress{{SectionID: "s1"}}, want: 0},
		{
			name: "one of three",
			sections: []models.SectionProgress{
				{SectionID: "s1", Chapters: chapters(map[string]bool{"c1": true}, "c1", "c2")},
				{SectionID: "s2", Chapters: chapters(nil, "c3")},
			},
			want: 1.0 / 3.0,
		},
		{
			name:     "all complete",
			sections: []models.SectionProgress{{SectionID: "s1", Chapters: chapters(map[string]bool{"c1": true, "c2": true}, "c1", "c2")}},
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateOverallProgress(tt.sections), 1e-9)
		})
	}
}

func TestMergeThenRecalculate(t *testing.T) {
	stored := []models.SectionProgress{
		{SectionID: "s1", Chapters: chapters(map[string]bool{"c1": true}, "c1", "c2", "c3")},
	}
	assert.InDelta(t, 1.0/3.0, CalculateOverallProgress(stored), 1e-9)

	merged := MergeSections(stored, []models.SectionProgress{
		{SectionID: "s1", Chapters: []models.ChapterProgress{{ChapterID: "c2", Completed: true}}},
	})

	assert.InDelta(t, 2.0/3.0, CalculateOverallProgress(merged), 1e-9)
}

func TestInitialProgress(t *testing.T) {
	course := &models.Course{
		Sections: []models.Section{
			{SectionID: "s1", Chapters: []models.Chapter{{ChapterID: "c1"}, {ChapterID: "c2"}}},
			{SectionID: "s2", Chapters: []models.Chapter{}},
		},
	}

	progress := InitialProgress(course)

	require.Len(t, progress, 2)
	assert.Equal(t, []models.ChapterProgress{{ChapterID: "c1"}, {ChapterID: "c2"}}, progress[0].Chapters)
	assert.Empty(t, progress[1].Chapters)
	assert.Zero(t, CalculateOverallProgress(progress))
}
