package main

import (
	"errors"
	"fmt"

	"github.com/NomadCrew/feedback-service/pkg/feedbackclient"
	"github.com/spf13/cobra"
)

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all feedback, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := feedbackclient.NewController(opts.client())
			if err := ctrl.Refresh(cmd.Context()); err != nil {
				return errors.New(ctrl.Snapshot().Error)
			}
			return printList(cmd.OutOrStdout(), ctrl.Snapshot().Items, now())
		},
	}
}

func showCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one feedback entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fb, err := opts.client().Get(cmd.Context(), args[0])
			if err != nil {
				return errors.New(feedbackclient.Message(err))
			}
			printDetail(cmd.OutOrStdout(), *fb, now())
			return nil
		},
	}
}

func submitCmd(opts *options) *cobra.Command {
	var name, message string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit new feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := feedbackclient.NewController(opts.client())
			fb, err := ctrl.Submit(cmd.Context(), name, message)
			if err != nil {
				return errors.New(ctrl.Snapshot().SubmitStatus.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ctrl.Snapshot().SubmitStatus.Message)
			printDetail(cmd.OutOrStdout(), *fb, now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Your name")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Your feedback")
	return cmd
}

func editCmd(opts *options) *cobra.Command {
	var name, message string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the name or message of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			id := args[0]

			// Unset flags keep the stored value
			if !cmd.Flags().Changed("name") || !cmd.Flags().Changed("message") {
				current, err := client.Get(cmd.Context(), id)
				if err != nil {
					return errors.New(feedbackclient.Message(err))
				}
				if !cmd.Flags().Changed("name") {
					name = current.Name
				}
				if !cmd.Flags().Changed("message") {
					message = current.Message
				}
			}

			ctrl := feedbackclient.NewController(client)
			fb, err := ctrl.Edit(cmd.Context(), id, name, message)
			if err != nil {
				return errors.New(ctrl.Snapshot().ActionError)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Feedback updated successfully")
			printDetail(cmd.OutOrStdout(), *fb, now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&message, "message", "m", "", "New message")
	return cmd
}

func deleteCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			ctrl := feedbackclient.NewController(client)
			// Load the list so the prompt can show what is being deleted.
			// An unreachable server fails here, before the user is asked.
			if err := ctrl.Refresh(cmd.Context()); err != nil {
				return errors.New(ctrl.Snapshot().Error)
			}

			var confirm feedbackclient.Confirmer = promptConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
			if yes {
				confirm = feedbackclient.ConfirmFunc(alwaysConfirm)
			}

			err := ctrl.Remove(cmd.Context(), args[0], confirm)
			switch {
			case errors.Is(err, feedbackclient.ErrNotConfirmed):
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			case err != nil:
				if msg := ctrl.Snapshot().ActionError; msg != "" {
					return errors.New(msg)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Feedback deleted successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func healthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ping, err := opts.client().Health(cmd.Context())
			if err != nil {
				return errors.New(feedbackclient.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", ping.Status, ping.Message, ping.Timestamp)
			return nil
		},
	}
}
