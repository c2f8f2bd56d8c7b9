package main

import (
	"time"

	"github.com/trezcool/sajili/core"
	"github.com/trezcool/sajili/core/student"
)

// addStudent updates or creates a student record.
func (cli *commandLine) addStudent(name, email, pwd string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	std, err := cli.repo.GetStudentByEmail(email)
	if err != nil {
		if err != student.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		std = student.Student{
			Name:      name,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = std.SetPassword(pwd); err != nil {
			return err
		}
		std.ID, err = student.NewID(cli.repo)
		if err != nil {
			return err
		}
		_, err = cli.repo.CreateStudent(std)
		return err
	}

	std.Name = name
	if err = std.SetPassword(pwd); err != nil {
		return err
	}
	std.UpdatedAt = time.Now().UTC()
	_, err = cli.repo.UpdateStudent(std)
	return err
}
