// Package participant holds the details typed in before a session starts.
package participant

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncruces/zenity"
)

// ErrCanceled is returned when the operator closes the info dialog.
var ErrCanceled = errors.New("info dialog terminated")

var Sexes = []string{"M", "F"}

type Info struct {
	ID  string
	Sex string
	Age string
}

// PartID is the identifier used for every output file of the session.
func (i Info) PartID() string {
	return i.ID + i.Sex + i.Age
}

func (i Info) Validate() error {
	var errs []error
	if strings.TrimSpace(i.ID) == "" {
		errs = append(errs, errors.New("participant ID is required"))
	}
	if strings.ContainsAny(i.ID, `/\:*?"<>|`) {
		errs = append(errs, fmt.Errorf("participant ID %q contains characters not allowed in file names", i.ID))
	}
	validSex := false
	for _, s := range Sexes {
		if i.Sex == s {
			validSex = true
		}
	}
	if !validSex {
		errs = append(errs, fmt.Errorf("sex must be one of %v, got %q", Sexes, i.Sex))
	}
	if i.Age != "" {
		if n, err := strconv.Atoi(i.Age); err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("age must be a non-negative number, got %q", i.Age))
		}
	}
	return errors.Join(errs...)
}

// Prompt asks for the fields of i that are still empty using native dialogs.
func Prompt(title string, i Info) (Info, error) {
	var err error
	if i.ID == "" {
		i.ID, err = zenity.Entry("ID:", zenity.Title(title))
		if err != nil {
			return i, promptErr(err)
		}
		i.ID = strings.TrimSpace(i.ID)
	}
	if i.Sex == "" {
		i.Sex, err = zenity.List("Sex:", Sexes, zenity.Title(title), zenity.DefaultItems(Sexes[0]))
		if err != nil {
			return i, promptErr(err)
		}
	}
	if i.Age == "" {
		i.Age, err = zenity.Entry("Age:", zenity.Title(title))
		if err != nil {
			return i, promptErr(err)
		}
		i.Age = strings.TrimSpace(i.Age)
	}
	return i, i.Validate()
}

func promptErr(err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return ErrCanceled
	}
	return fmt.Errorf("info dialog: %w", err)
}
