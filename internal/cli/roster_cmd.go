package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/granthours/internal/cli/formatter"
	"github.com/alexanderramin/granthours/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRosterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage staff, students, and caseload assignments",
	}
	cmd.AddCommand(
		newStaffAddCmd(app),
		newStaffListCmd(app),
		newStudentAddCmd(app),
		newCaseloadAddCmd(app),
	)
	return cmd
}

func newStaffAddCmd(app *App) *cobra.Command {
	var email, role, building string

	cmd := &cobra.Command{
		Use:   "staff-add <name>",
		Short: "Add a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.StaffMember{
				ID:        uuid.New().String(),
				Email:     email,
				Name:      args[0],
				Role:      role,
				Building:  building,
				Active:    true,
				CreatedAt: time.Now().UTC(),
			}

			if err := app.Staff.Create(context.Background(), s); err != nil {
				return err
			}

			fmt.Printf("Staff member %s added with ID %s\n", formatter.Bold(s.Name), s.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&role, "role", "", "Staff role, used for role-based activity restrictions")
	cmd.Flags().StringVar(&building, "building", "", "Home building")
	return cmd
}

func newStaffListCmd(app *App) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "staff-list",
		Short: "List staff members",
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, err := app.Staff.List(context.Background(), activeOnly)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatStaffList(staff))
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Show only active staff")
	return cmd
}

func newStudentAddCmd(app *App) *cobra.Command {
	var building string

	cmd := &cobra.Command{
		Use:   "student-add <name>",
		Short: "Add a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Student{
				ID:        uuid.New().String(),
				Name:      args[0],
				Building:  building,
				Active:    true,
				CreatedAt: time.Now().UTC(),
			}

			if err := app.Students.Create(context.Background(), s); err != nil {
				return err
			}

			fmt.Printf("Student %s added with ID %s\n", formatter.Bold(s.Name), s.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&building, "building", "", "Home building")
	return cmd
}

func newCaseloadAddCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "caseload-add <staff-id> <student-id>",
		Short: "Assign a student to a staff member's caseload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse(time.DateOnly, start)
			if err != nil {
				return fmt.Errorf("invalid --start %q: expected YYYY-MM-DD", start)
			}

			a := &domain.CaseloadAssignment{
				ID:        uuid.New().String(),
				ActorID:   args[0],
				SubjectID: args[1],
				StartDate: startDate,
				CreatedAt: time.Now().UTC(),
			}
			if end != "" {
				endDate, err := time.Parse(time.DateOnly, end)
				if err != nil {
					return fmt.Errorf("invalid --end %q: expected YYYY-MM-DD", end)
				}
				a.EndDate = &endDate
			}

			if err := app.Caseloads.Create(context.Background(), a); err != nil {
				return err
			}

			fmt.Printf("Caseload assignment %s created.\n", a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Effective start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Optional effective end date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("start")
	return cmd
}
