package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsboard/userdash/internal/model"
	"github.com/opsboard/userdash/internal/view"
)

var (
	// add/update fields
	newName       string
	newEmail      string
	newDepartment string
	userID        int
)

// loadedViewModel builds a view-model and populates it, since mutations
// need the current collection (id allocation, merge targets).
func loadedViewModel(cmd *cobra.Command) (*view.ViewModel, func(), error) {
	gw, cleanup, err := newGateway()
	if err != nil {
		return nil, nil, err
	}
	vm := view.New(gw)
	if err := vm.Load(cmd.Context()); err != nil {
		cleanup()
		return nil, nil, err
	}
	return vm, cleanup, nil
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new user",
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := model.Draft{Name: newName, Email: newEmail, Department: newDepartment}
		if err := draft.Validate(); err != nil {
			return err
		}

		vm, cleanup, err := loadedViewModel(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := vm.AddUser(cmd.Context(), draft); err != nil {
			return err
		}
		users := vm.Users()
		fmt.Printf("%s (id %d)\n", view.MsgUserAdded, users[len(users)-1].ID)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update an existing user",
	Long:  "Update the user with the given id. Only the flags you pass are changed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userID <= 0 {
			return errors.New("--id must be a positive integer")
		}
		draft := model.Draft{Name: newName, Email: newEmail, Department: newDepartment}
		if err := draft.ValidatePatch(); err != nil {
			return err
		}

		vm, cleanup, err := loadedViewModel(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := vm.UpdateUser(cmd.Context(), userID, draft); err != nil {
			return err
		}
		fmt.Println(view.MsgUserUpdated)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userID <= 0 {
			return errors.New("--id must be a positive integer")
		}

		vm, cleanup, err := loadedViewModel(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := vm.DeleteUser(cmd.Context(), userID); err != nil {
			return err
		}
		fmt.Println(view.MsgUserDeleted)
		return nil
	},
}

func init() {

	addCmd.Flags().StringVarP(&newName, "name", "n", "", "Name of the user")

	addCmd.Flags().StringVarP(&newEmail, "email", "e", "", "Email of the user")

	addCmd.Flags().StringVarP(&newDepartment, "department", "d", "", "Department of the user")

	updateCmd.Flags().IntVarP(&userID, "id", "i", 0, "ID of the user to update")

	updateCmd.Flags().StringVarP(&newName, "name", "n", "", "New name")

	updateCmd.Flags().StringVarP(&newEmail, "email", "e", "", "New email")

	updateCmd.Flags().StringVarP(&newDepartment, "department", "d", "", "New department")

	deleteCmd.Flags().IntVarP(&userID, "id", "i", 0, "ID of the user to delete")

	rootCmd.AddCommand(addCmd, updateCmd, deleteCmd)
}
