package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/trezcool/sajili/core"
	"github.com/trezcool/sajili/core/directory"
	"github.com/trezcool/sajili/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("migrate requires a database-backed store")
)

type commandLine struct {
	conf    *core.Config
	repo    student.Repository
	dirSvc  *directory.Service
	migrate func(command string, args ...string) error // nil without a SQL store
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addstudent -name NAME -email EMAIL - register a student; the password will be prompted")
	fmt.Println("  removestudent -id ID - delete a student record")
	fmt.Println("  liststudents - print all student records")
	fmt.Println("  cleardb -yes - delete all student records")
	fmt.Println("  resetpassword -email EMAIL - reset a student's password")
	fmt.Println("  migrate COMMAND - run a database migration command (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addName := addCmd.String("name", "", "The student's display name.")
	addEmail := addCmd.String("email", "", "The student's email. The password will be prompted next.")

	removeCmd := flag.NewFlagSet("removestudent", flag.ExitOnError)
	removeID := removeCmd.String("id", "", "The student's ID.")

	clearCmd := flag.NewFlagSet("cleardb", flag.ExitOnError)
	clearYes := clearCmd.Bool("yes", false, "Confirm deletion of all records.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The student's email. The password will be prompted next.")

	switch args[1] {
	case "addstudent":
		if err := addCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addName == "" || *addEmail == "" {
			addCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addName, *addEmail, pwd)
	case "removestudent":
		if err := removeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *removeID == "" {
			removeCmd.Usage()
			return errHelp
		}
		return cli.dirSvc.Remove(*removeID)
	case "liststudents":
		return cli.listStudents()
	case "cleardb":
		if err := clearCmd.Parse(args[2:]); err != nil {
			return err
		}
		if !*clearYes {
			clearCmd.Usage()
			return errHelp
		}
		return cli.dirSvc.Clear()
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		if cli.migrate == nil {
			return errNoDatabase
		}
		return cli.migrate(args[2], args[3:]...)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) listStudents() error {
	students, err := cli.dirSvc.ListAll()
	if err != nil {
		return err
	}

	scale := cli.conf.Grading
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSUBJECTS\tAVERAGE\tGRADE\tOUTCOME")
	for _, std := range students {
		outcome := "FAIL"
		if std.IsPassing(scale) {
			outcome = "PASS"
		}
		_, _ = fmt.Fprintf(
			w, "%s\t%s\t%s\t%d\t%.1f\t%s\t%s\n",
			std.ID, std.Name, std.Email, len(std.Subjects), std.AverageMark(), std.Grade(scale), outcome,
		)
	}
	return w.Flush()
}
