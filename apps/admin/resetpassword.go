package main

import (
	"time"

	"github.com/trezcool/sajili/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	std, err := cli.repo.GetStudentByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err = std.SetPassword(pwd); err != nil {
		return err
	}
	std.UpdatedAt = time.Now().UTC()
	_, err = cli.repo.UpdateStudent(std)
	return err
}
