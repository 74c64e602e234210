package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	otp := &cobra.Command{
		Use:   "otp",
		Short: "Phone number authentication",
	}

	send := &cobra.Command{
		Use:   "send [phone]",
		Short: "Send a one-time code to a phone number",
		Args:  cobra.ExactArgs(1),
		Run:   runOTPSend,
	}
	send.Flags().String("country", "+91", "Country calling code")

	verify := &cobra.Command{
		Use:   "verify [session-id] [code]",
		Short: "Verify a one-time code and log in",
		Args:  cobra.ExactArgs(2),
		Run:   runOTPVerify,
	}

	otp.AddCommand(send, verify)
	RootCmd.AddCommand(otp)
}

func runOTPSend(cmd *cobra.Command, args []string) {
	country, _ := cmd.Flags().GetString("country")

	a := newApp()
	resp, err := a.auth.SendOTP(cmd.Context(), args[0], country)
	if err != nil {
		exitErr("send otp", err)
	}
	if !resp.Success {
		exitErr("send otp", fmt.Errorf("%s", resp.Error))
	}
	fmt.Printf("code sent, expires in %d minutes\n", resp.ExpiresInMinutes)
	fmt.Printf("verify with: krishi otp verify %s <code>\n", resp.SessionID)
}

func runOTPVerify(cmd *cobra.Command, args []string) {
	a := newApp()
	sess, err := a.auth.VerifyOTP(cmd.Context(), args[0], args[1])
	if err != nil {
		exitErr("verify otp", err)
	}
	saveSession(a, sess)
	fmt.Printf("logged in as %s\n", sess.User.Name)
}
