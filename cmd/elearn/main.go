package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/quitecodedevelopers/elearn-go/internal/directory"
	"github.com/quitecodedevelopers/elearn-go/internal/dto"
	"github.com/quitecodedevelopers/elearn-go/internal/gate"
	"github.com/quitecodedevelopers/elearn-go/internal/service"
	"github.com/quitecodedevelopers/elearn-go/internal/session"
	"github.com/quitecodedevelopers/elearn-go/pkg/config"
	"github.com/quitecodedevelopers/elearn-go/pkg/logger"
)

const usage = `usage: elearn <command> [args]

commands:
  login                          sign in and cache the session token
  dashboard                      enrolled and recommended courses
  courses [--title t] [--category c]
                                 browse the catalog
  course <courseID>              course details
  lectures <courseID>            lecture list for an enrolled course
  watch <lectureID> [--finish]   lecture page; --finish marks it complete
  assignments                    assignments grouped by status
  submit <assignmentID> <url>    submit an assignment solution
  enroll <courseID>              enroll in a course
  me                             current profile
`

// app bundles the wired services behind the CLI commands.
type app struct {
	sess        *session.Memory
	client      *directory.Client
	tokenPath   string
	enrollment  *service.EnrollmentService
	courseViews *service.CourseViewService
	lectures    *service.LectureService
	assignments *service.AssignmentService
	profile     *service.ProfileService
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	a := newApp(cfg, logr)
	if err := a.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, logr *zap.Logger) *app {
	sess := session.NewMemory()
	tokenPath := tokenFile()
	if token, err := os.ReadFile(tokenPath); err == nil {
		if t := strings.TrimSpace(string(token)); t != "" {
			sess.Set(t)
		}
	}

	client := directory.New(directory.Config{
		BaseURL: cfg.Directory.BaseURL,
		Timeout: cfg.Directory.Timeout,
		Session: sess,
		Logger:  logr,
	})

	enrollment := service.NewEnrollmentService(client, sess, logr)
	progress := service.NewProgressService(client, sess, logr)

	return &app{
		sess:        sess,
		client:      client,
		tokenPath:   tokenPath,
		enrollment:  enrollment,
		courseViews: service.NewCourseViewService(client, enrollment, progress, logr),
		lectures:    service.NewLectureService(client, enrollment, progress, logr),
		assignments: service.NewAssignmentService(client, enrollment, sess, nil, logr),
		profile:     service.NewProfileService(client, sess, logr),
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx)
	case "dashboard":
		return a.dashboard(ctx)
	case "courses":
		return a.courses(ctx, args)
	case "course":
		if len(args) < 1 {
			return fmt.Errorf("course: missing course id")
		}
		return a.course(ctx, args[0])
	case "lectures":
		if len(args) < 1 {
			return fmt.Errorf("lectures: missing course id")
		}
		return a.guarded(func() error { return a.listLectures(ctx, args[0]) })
	case "watch":
		if len(args) < 1 {
			return fmt.Errorf("watch: missing lecture id")
		}
		finish := len(args) > 1 && args[1] == "--finish"
		return a.guarded(func() error { return a.watch(ctx, args[0], finish) })
	case "assignments":
		return a.guarded(func() error { return a.listAssignments(ctx) })
	case "submit":
		if len(args) < 2 {
			return fmt.Errorf("submit: need assignment id and submission url")
		}
		return a.guarded(func() error { return a.submit(ctx, args[0], args[1]) })
	case "enroll":
		if len(args) < 1 {
			return fmt.Errorf("enroll: missing course id")
		}
		return a.guarded(func() error { return a.enroll(ctx, args[0]) })
	case "me":
		return a.guarded(func() error { return a.me(ctx) })
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// guarded runs fn only when the auth gate allows it, mirroring how the
// protected pages never render content for an anonymous visitor.
func (a *app) guarded(fn func() error) error {
	g := gate.NewStudentGate(a.sess, func(target string) {
		fmt.Fprintf(os.Stderr, "not signed in; run `elearn login` (redirect target %s)\n", target)
	})
	if g.Mount(); !g.CanRender() {
		return fmt.Errorf("authentication required")
	}
	return fn()
}

func (a *app) login(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Print("password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return err
	}

	token, err := a.client.Login(ctx, strings.TrimSpace(email), string(raw))
	if err != nil {
		return err
	}

	a.sess.Set(token)
	if err := os.MkdirAll(filepath.Dir(a.tokenPath), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(a.tokenPath, []byte(token), 0o600); err != nil {
		return err
	}
	fmt.Println("signed in")
	return nil
}

func (a *app) dashboard(ctx context.Context) error {
	view := a.courseViews.Dashboard(ctx)

	fmt.Println("My courses:")
	if msg, ok := view.SectionErrors[dto.SectionEnrollment]; ok {
		fmt.Println("  (unavailable:", msg+")")
	} else if len(view.Enrolled) == 0 {
		fmt.Println("  (none)")
	}
	for _, c := range view.Enrolled {
		line := fmt.Sprintf("  %-10s %s", c.ID, c.Title)
		if c.Progress != nil {
			line += fmt.Sprintf("  [%.0f%%]", *c.Progress)
		}
		fmt.Println(line)
	}

	fmt.Println("Recommended:")
	if msg, ok := view.SectionErrors[dto.SectionCatalog]; ok {
		fmt.Println("  (unavailable:", msg+")")
	}
	for _, c := range view.Recommended {
		fmt.Printf("  %-10s %s  (%s, $%.2f)\n", c.ID, c.Title, c.Category, c.Price)
	}
	return nil
}

func (a *app) courses(ctx context.Context, args []string) error {
	var title, category string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--title":
			if i+1 < len(args) {
				i++
				title = args[i]
			}
		case "--category":
			if i+1 < len(args) {
				i++
				category = args[i]
			}
		}
	}

	courses, err := a.courseViews.Search(ctx, title, category)
	if err != nil {
		return err
	}
	for _, c := range courses {
		fmt.Printf("%-10s %-30s %-14s $%.2f\n", c.ID, c.Title, c.Category, c.Price)
	}
	return nil
}

func (a *app) course(ctx context.Context, id string) error {
	c, err := a.client.Course(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s, $%.2f)\n\n%s\n\n%s\n", c.Title, c.Category, c.Price, c.ShortDescription, c.Description)
	return nil
}

func (a *app) listLectures(ctx context.Context, courseID string) error {
	lectures, err := a.lectures.CourseLectures(ctx, courseID)
	if err != nil {
		return err
	}
	for _, l := range lectures {
		fmt.Printf("%2d. %-10s %s (%ds)\n", l.OrderIndex, l.ID, l.Title, l.DurationSeconds)
	}
	return nil
}

func (a *app) watch(ctx context.Context, lectureID string, finish bool) error {
	page, err := a.lectures.LecturePage(ctx, lectureID)
	if err != nil {
		return err
	}

	if finish {
		if err := a.lectures.FinishLecture(ctx, page); err != nil {
			return err
		}
	}

	status := "in progress"
	if page.Completed {
		status = "completed"
	}
	fmt.Printf("%s  (lecture %d of %d, course at %.0f%%, %s)\n",
		page.Lecture.Title, page.Position, len(page.CourseLectures), page.ProgressPercent, status)
	fmt.Println("video:", page.Lecture.VideoURL)
	return nil
}

func (a *app) listAssignments(ctx context.Context) error {
	views, err := a.assignments.Overview(ctx)
	if err != nil {
		return err
	}

	for _, group := range service.GroupByStatus(views) {
		fmt.Printf("%s:\n", group.Status)
		for _, v := range group.Assignments {
			line := fmt.Sprintf("  %-10s %-30s %s  due %s",
				v.ID, v.Title, v.CourseTitle, v.DueDate.Format("2006-01-02"))
			if v.Submission != nil && v.Submission.Grade != nil {
				line += fmt.Sprintf("  grade %.0f/%.0f", *v.Submission.Grade, v.MaxMarks)
			}
			fmt.Println(line)
		}
	}
	return nil
}

func (a *app) submit(ctx context.Context, assignmentID, url string) error {
	sub, err := a.assignments.Submit(ctx, service.SubmitRequest{
		AssignmentID:  assignmentID,
		SubmissionURL: url,
	})
	if err != nil {
		return err
	}
	fmt.Printf("submitted %s at %s\n", sub.AssignmentID, sub.SubmittedAt.Format("2006-01-02 15:04"))
	return nil
}

func (a *app) enroll(ctx context.Context, courseID string) error {
	if err := a.enrollment.Enroll(ctx, courseID); err != nil {
		return err
	}
	fmt.Println("enrolled in", courseID)
	return nil
}

func (a *app) me(ctx context.Context) error {
	u, err := a.profile.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> (%s)\n", u.Name, u.Email, u.Role)
	return nil
}

func tokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".elearn", "token")
}
