package utils

import "learnhub/backend/models"

// MergeSections folds an incoming partial progress update into the stored
// sections. Sections and chapters are matched by id; an incoming chapter's
// completed flag overrides the stored one, and anything only one side knows
// about is kept. Stored order comes first, new entries are appended in the
// order they arrived. Neither input is modified.
func MergeSections(existing, incoming []models.SectionProgress) []models.SectionProgress {
	merged := make([]models.SectionProgress, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing)+len(incoming))

	for _, section := range existing {
		index[section.SectionID] = len(merged)
		merged = append(merged, models.SectionProgress{
			SectionID: section.SectionID,
			Chapters:  append([]models.ChapterProgress{}, section.Chapters...),
		})
	}

	for _, section := range incoming {
		pos, ok := index[section.SectionID]
		if !ok {
			index[section.SectionID] = len(merged)
			merged = append(merged, models.SectionProgress{
				SectionID: section.SectionID,
				Chapters:  append([]models.ChapterProgress{}, section.Chapters...),
			})
			continue
		}
		merged[pos].Chapters = mergeChapters(merged[pos].Chapters, section.Chapters)
	}

	return merged
}

func mergeChapters(existing, incoming []models.ChapterProgress) []models.ChapterProgress {
	index := make(map[string]int, len(existing))
	for i, chapter := range existing {
		index[chapter.ChapterID] = i
	}
	for _, chapter := range incoming {
		if i, ok := index[chapter.ChapterID]; ok {
			existing[i].Completed = chapter.Completed
			continue
		}
		index[chapter.ChapterID] = len(existing)
		existing = append(existing, chapter)
	}
	return existing
}

// CalculateOverallProgress returns the completed share of all chapters, or 0
// when there are none.
func CalculateOverallProgress(sections []models.SectionProgress) float64 {
	var total, completed int
	for _, section := range sections {
		for _, chapter := range section.Chapters {
			total++
			if chapter.Completed {
				completed++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// InitialProgress marks every chapter of the course as not completed.
func InitialProgress(course *models.Course) []models.SectionProgress {
	sections := make([]models.SectionProgress, 0, len(course.Sections))
	for _, section := range course.Sections {
		chapters := make([]models.ChapterProgress, 0, len(section.Chapters))
		for _, chapter := range section.Chapters {
			chapters = append(chapters, models.ChapterProgress{ChapterID: chapter.ChapterID})
		}
		sections = append(sections, models.SectionProgress{SectionID: section.SectionID, Chapters: chapters})
	}
	return sections
}
