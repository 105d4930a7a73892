package devserver

import (
	"fmt"
	"time"

	"github.com/quitecodedevelopers/elearn-go/internal/models"
)

// Demo account credentials accepted by a seeded devserver.
const (
	SeedStudentEmail    = "jane@student.test"
	SeedStudentPassword = "student123"
	SeedAdminEmail      = "admin@elearn.test"
	SeedAdminPassword   = "admin123"
)

// Seed fills the store with a small demo catalog, a student enrolled in
// the first course with some progress and a graded submission, so the CLI
// has something to show against a fresh devserver.
func Seed(store *Store) error {
	goCourse := store.AddCourse(models.Course{
		Title:            "Go From Scratch",
		Category:         "programming",
		Price:            49.99,
		ShortDescription: "Learn Go from zero to production.",
		Description:      "<p>A hands-on introduction to Go: syntax, tooling, testing and concurrency.</p>",
		ThumbnailURL:     "https://cdn.elearn.test/thumbs/go.png",
	})
	distSys := store.AddCourse(models.Course{
		Title:            "Distributed Systems",
		Category:         "systems",
		Price:            89.99,
		ShortDescription: "Consensus, replication and failure models.",
		Description:      "<p>The theory and practice of systems that span machines.</p>",
		ThumbnailURL:     "https://cdn.elearn.test/thumbs/distsys.png",
	})
	writing := store.AddCourse(models.Course{
		Title:            "Technical Writing",
		Category:         "communication",
		Price:            19.99,
		ShortDescription: "Write docs engineers actually read.",
		Description:      "<p>Structure, tone and editing for technical audiences.</p>",
		ThumbnailURL:     "https://cdn.elearn.test/thumbs/writing.png",
	})

	goLectures := []string{"Hello, Go", "Types and Structs", "Interfaces", "Goroutines and Channels"}
	for i, title := range goLectures {
		store.AddLecture(models.Lecture{
			CourseID:        goCourse.ID,
			Title:           title,
			Description:     fmt.Sprintf("<p>Lecture %d of %s.</p>", i+1, goCourse.Title),
			VideoURL:        fmt.Sprintf("https://cdn.elearn.test/videos/go-%d.mp4", i+1),
			DurationSeconds: 600 + i*120,
			OrderIndex:      i + 1,
		})
	}
	for i, title := range []string{"Time and Order", "Replication", "Consensus"} {
		store.AddLecture(models.Lecture{
			CourseID:        distSys.ID,
			Title:           title,
			DurationSeconds: 900,
			OrderIndex:      i + 1,
		})
	}
	for i, title := range []string{"Audience First", "Editing Passes"} {
		store.AddLecture(models.Lecture{
			CourseID:        writing.ID,
			Title:           title,
			DurationSeconds: 480,
			OrderIndex:      i + 1,
		})
	}

	week := 7 * 24 * time.Hour
	firstAssignment := store.AddAssignment(models.Assignment{
		CourseID:    goCourse.ID,
		Title:       "FizzBuzz with tests",
		Description: "<p>Implement fizzbuzz and a table-driven test for it.</p>",
		DueDate:     time.Now().UTC().Add(week),
		MaxMarks:    100,
	})
	store.AddAssignment(models.Assignment{
		CourseID: goCourse.ID,
		Title:    "Concurrent word count",
		DueDate:  time.Now().UTC().Add(2 * week),
		MaxMarks: 100,
	})
	store.AddAssignment(models.Assignment{
		CourseID: distSys.ID,
		Title:    "Lamport clocks essay",
		DueDate:  time.Now().UTC().Add(week),
		MaxMarks: 50,
	})

	if _, err := store.AddUser("Jane Doe", SeedStudentEmail, models.RoleStudent, SeedStudentPassword); err != nil {
		return err
	}
	if _, err := store.AddUser("Site Admin", SeedAdminEmail, models.RoleAdmin, SeedAdminPassword); err != nil {
		return err
	}

	store.Enroll(SeedStudentEmail, goCourse.ID)
	store.SetProgress(SeedStudentEmail, goCourse.ID, 25)
	if _, ok := store.Submit(SeedStudentEmail, firstAssignment.ID, "https://github.com/jane/fizzbuzz"); ok {
		store.Grade(SeedStudentEmail, firstAssignment.ID, 92, "Clean tests, nice table cases.")
	}

	return nil
}
