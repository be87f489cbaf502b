package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/student"
	"github.com/trezcool/masomo-dashboard/core/user"
	"github.com/trezcool/masomo-dashboard/storage/csvfile"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp             = errors.New("help provided")
	errPasswordMismatch = errors.New("passwords do not match")
)

type commandLine struct {
	studentSvc student.Service
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  hashpassword -email EMAIL - print a STAFF_ACCOUNTS entry for a staff member")
	fmt.Fprintln(cli.out, "  report -id STUDENT_ID     - print a student's performance report")
	fmt.Fprintln(cli.out, "  overview [-lang TAG]      - print the class overview")
	fmt.Fprintln(cli.out, "  export [-spec S] [-club C] [-search Q] [-order F] - print student records as CSV")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	hashPasswordCmd := flag.NewFlagSet("hashpassword", flag.ExitOnError)
	hashPasswordEmail := hashPasswordCmd.String("email", "", "The staff member's email. The password will be prompted next.")

	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
	reportID := reportCmd.String("id", "", "The 6-digit student ID.")

	overviewCmd := flag.NewFlagSet("overview", flag.ExitOnError)
	overviewLang := overviewCmd.String("lang", "en", "BCP 47 language tag used to format numbers.")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportSpec := exportCmd.String("spec", "", "Only export this specialization.")
	exportClub := exportCmd.String("club", "", "Only export members of this club.")
	exportSearch := exportCmd.String("search", "", "Name or student ID search.")
	exportOrder := exportCmd.String("order", "", `Comma separated fields, "-" for descending. e.g. "-gpa,name"`)

	switch args[1] {
	case "hashpassword":
		if err := hashPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *hashPasswordEmail == "" {
			hashPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.prompt("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			hashPasswordCmd.Usage()
			return errHelp
		}
		confirm, err := cli.prompt("Confirm password:")
		if err != nil {
			return err
		}
		return cli.hashPassword(*hashPasswordEmail, pwd, confirm)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reportID == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(*reportID)
	case "overview":
		if err := overviewCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.overview(*overviewLang)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		filter := student.QueryFilter{Search: *exportSearch, Specialization: *exportSpec, Club: *exportClub}
		return cli.export(filter, *exportOrder)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}

func (cli *commandLine) hashPassword(email, pwd, confirm string) error {
	na := user.NewStaffAccount{Email: email, Password: pwd, PasswordConfirm: confirm}
	if err := na.Validate(cli.validate); err != nil {
		return cli.translate(err)
	}
	entry, err := na.Entry()
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	fmt.Fprintln(cli.out, entry)
	return nil
}

func (cli *commandLine) report(id string) error {
	id = core.CleanString(id)
	if !core.IsStudentID(id) {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "student ID must be a 6-digit number"})
	}
	sid, _ := strconv.Atoi(id)

	profile, err := cli.studentSvc.Profile(context.Background(), sid)
	if err != nil {
		return errors.Wrapf(err, "building report for %s", id)
	}
	s, rep := profile.Student, profile.Report

	fmt.Fprintf(cli.out, "%s (%d) - %s, semester %d\n", s.Name, s.ID, s.Course, s.Semester)
	fmt.Fprintf(cli.out, "GPA: %.2f | Trend: %s %s | Mastery: %s\n", rep.GPA, rep.TrendIcon, rep.Trend, rep.Mastery)
	fmt.Fprintf(cli.out, "Attendance: %s (%d/%d classes, %d needed)\n",
		rep.Attendance.Pattern.Status, rep.Attendance.AttendedClasses, rep.Attendance.TotalClasses,
		rep.Attendance.Pattern.ClassesNeeded)
	for _, alert := range rep.Attendance.Alerts {
		fmt.Fprintf(cli.out, "  [%s] %s\n", alert.Severity, alert.Message)
	}
	fmt.Fprintf(cli.out, "Assignments: %d/%d completed, %d pending\n",
		rep.Assignments.Status.Completed, rep.Assignments.Status.Total, rep.Assignments.Status.Pending)
	if len(rep.Recommendations) > 0 {
		fmt.Fprintln(cli.out, "Recommendations:")
		for _, rec := range rep.Recommendations {
			fmt.Fprintf(cli.out, "  - %s\n", rec)
		}
	}
	return nil
}

func (cli *commandLine) overview(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "lang", Error: err.Error()})
	}
	ov, err := cli.studentSvc.Overview(context.Background(), student.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "computing overview")
	}
	fmt.Fprintln(cli.out, strings.Join(ov.Lines(tag), "\n"))
	return nil
}

func (cli *commandLine) export(filter student.QueryFilter, order string) error {
	students, err := cli.studentSvc.List(context.Background(), filter, core.ParseOrderings(order))
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return errors.Wrap(csvfile.WriteStudents(cli.out, students), "writing students")
}

// translate turns validator errors into a core.ValidationError with readable messages.
func (cli *commandLine) translate(err error) error {
	vErrs, ok := errors.Cause(err).(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]core.FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, core.FieldError{Field: vErr.Field(), Error: vErr.Translate(cli.translator)})
	}
	return core.NewValidationError(nil, flds...)
}
