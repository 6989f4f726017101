package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hukukrehberi/calc-engine/api"
	"github.com/hukukrehberi/calc-engine/compensation"
	"github.com/hukukrehberi/calc-engine/factory"
	"github.com/hukukrehberi/calc-engine/sentence"
	"github.com/spf13/cobra"
)

// =============================================================================
// PARAMETER SOURCE
// =============================================================================

// offlineParameters returns the registered defaults, or the values of the
// preset named by --preset.
func offlineParameters(cmd *cobra.Command) (factory.Parameters, error) {
	id, _ := cmd.Flags().GetString("preset")
	if id == "" {
		return factory.FromRecords(nil), nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return factory.Parameters{}, err
	}
	catalog, err := factory.LoadCatalog(cfg.Presets.Dir)
	if err != nil {
		return factory.Parameters{}, err
	}
	p, err := catalog.Get(id)
	if err != nil {
		return factory.Parameters{}, err
	}
	return factory.FromRecords(p.Records(time.Now())), nil
}

func addCalcFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "Use a jurisdiction preset instead of the defaults")
	cmd.Flags().String("lang", "tr", "Output language (tr, en)")
}

func locale(cmd *cobra.Command) api.Locale {
	lang, _ := cmd.Flags().GetString("lang")
	if strings.HasPrefix(strings.ToLower(lang), "en") {
		return api.LocaleEN
	}
	return api.LocaleTR
}

// =============================================================================
// COMPENSATION
// =============================================================================

func newCompensationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compensation",
		Short: "Calculate end-of-employment compensation",
		Long: `Calculate severance, notice, overtime and unused vacation pay.

Values are read like the web form: blank or invalid numbers count as zero
and a blank termination type means the employer ended the contract.`,
		Example: `  hukuk compensation --wage 15000 --years 3 --overtime 100 --used-vacation 40`,
		Args:    cobra.NoArgs,
		RunE:    runCompensation,
	}
	cmd.Flags().String("wage", "", "Monthly gross wage (TL)")
	cmd.Flags().String("years", "", "Full years worked")
	cmd.Flags().String("months", "", "Extra months worked")
	cmd.Flags().String("overtime", "", "Overtime hours")
	cmd.Flags().String("used-vacation", "", "Vacation days already used")
	cmd.Flags().String("termination", "", "Who terminated: employer, employee or mutual")
	addCalcFlags(cmd)
	return cmd
}

func runCompensation(cmd *cobra.Command, _ []string) error {
	params, err := offlineParameters(cmd)
	if err != nil {
		return err
	}

	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	in := compensation.Form{
		MonthlyWage:      str("wage"),
		WorkYears:        str("years"),
		WorkMonths:       str("months"),
		OvertimeHours:    str("overtime"),
		UsedVacationDays: str("used-vacation"),
		TerminationType:  str("termination"),
	}.Normalize()

	res := compensation.Calculate(in, params.Compensation)
	printCompensation(cmd.OutOrStdout(), locale(cmd), in, res)
	return nil
}

func printCompensation(w io.Writer, l api.Locale, in compensation.Input, res compensation.Result) {
	capped := ""
	if res.SeveranceCapped {
		capped = " (capped)"
	}
	fmt.Fprintf(w, "Termination:       %s\n", in.Termination)
	fmt.Fprintf(w, "Daily wage:        %s\n", l.Money(res.DailyWage))
	fmt.Fprintf(w, "Severance pay:     %s%s\n", l.Money(res.SeverancePay), capped)
	fmt.Fprintf(w, "Notice pay:        %s (%s)\n", l.Money(res.NoticePay), l.Days(res.NoticeDays))
	fmt.Fprintf(w, "Overtime pay:      %s\n", l.Money(res.OvertimePay))
	fmt.Fprintf(w, "Vacation pay:      %s (%s)\n", l.Money(res.VacationPay), l.Days(res.UnusedVacationDays))
	fmt.Fprintf(w, "Total:             %s\n", l.Money(res.TotalCompensation))
}

// =============================================================================
// SENTENCE
// =============================================================================

func newSentenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sentence",
		Aliases: []string{"execution"},
		Short:   "Calculate a sentence execution breakdown",
		Long: `Split a prison sentence into good behavior discount, open prison,
home detention, electronic tag and closed prison time.

Reductions are applied in that order, each to what the previous one left.`,
		Example: `  hukuk sentence --years 5 --good-behavior --open-prison`,
		Args:    cobra.NoArgs,
		RunE:    runSentence,
	}
	cmd.Flags().String("years", "", "Sentence years")
	cmd.Flags().String("months", "", "Sentence months")
	cmd.Flags().String("days", "", "Sentence days")
	cmd.Flags().Bool("good-behavior", false, "Apply the good behavior discount")
	cmd.Flags().Bool("open-prison", false, "Request open prison")
	cmd.Flags().Bool("home-detention", false, "Request home detention")
	cmd.Flags().Bool("electronic-tag", false, "Request electronic tagging")
	addCalcFlags(cmd)
	return cmd
}

func runSentence(cmd *cobra.Command, _ []string) error {
	params, err := offlineParameters(cmd)
	if err != nil {
		return err
	}

	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	flag := func(name string) bool {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	in := sentence.Form{
		SentenceYears:      str("years"),
		SentenceMonths:     str("months"),
		SentenceDays:       str("days"),
		HasGoodBehavior:    flag("good-behavior"),
		WantsOpenPrison:    flag("open-prison"),
		WantsHomeDetention: flag("home-detention"),
		WantsElectronicTag: flag("electronic-tag"),
	}.Normalize()

	res, ok := sentence.Calculate(in, params.Sentence)
	w := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(w, "Nothing to calculate: the sentence is zero days.")
		return nil
	}

	l := locale(cmd)
	fmt.Fprintf(w, "Total sentence:    %s (%d days)\n", l.Duration(res.TotalDays), res.TotalDays)
	for _, s := range res.Steps {
		fmt.Fprintf(w, "%-19s-%d days, %d remaining\n", l.Stage(s.Stage)+":", s.DaysDeducted, s.DaysRemaining)
	}
	fmt.Fprintf(w, "Closed prison:     %s (%d days)\n", l.Duration(res.FinalPrisonDays), res.FinalPrisonDays)
	return nil
}
