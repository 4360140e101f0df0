// Command inquiry submits one inquiry to a running server through the same
// validate-then-post flow as the browser form.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/CTNinc/keinomori-summerlp2025/pkg/inquiryclient"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/logger"
)

func main() {
	var (
		server    = flag.String("server", "http://localhost:8080", "base URL of the inquiry service")
		timezone  = flag.String("tz", "Asia/Tokyo", "timezone deciding which day is today")
		timeout   = flag.Duration("timeout", 30*time.Second, "per-request timeout")
		loadRules = flag.Bool("server-rules", true, "validate with the rule set served by the server")
		form      inquiryclient.Form
	)
	flag.StringVar(&form.CarType, "car-type", "", "お問い合わせ希望車種")
	flag.StringVar(&form.Name, "name", "", "お名前")
	flag.StringVar(&form.NameKana, "name-kana", "", "お名前（ふりがな）")
	flag.StringVar(&form.Email, "email", "", "メールアドレス")
	flag.StringVar(&form.Phone, "phone", "", "電話番号（ハイフンなし）")
	flag.StringVar(&form.VisitDate, "visit-date", "", "来店希望日 (YYYY-MM-DD)")
	flag.StringVar(&form.VisitTime, "visit-time", "", "来店希望時間")
	flag.StringVar(&form.Store, "store", "", "来店希望店舗")
	flag.StringVar(&form.Message, "message", "", "お問い合わせ内容")
	flag.BoolVar(&form.PrivacyAgree, "privacy-agree", false, "プライバシーポリシーに同意する")
	flag.Parse()

	log := logger.Init(logger.Config{Level: "warn", Format: "console", Output: os.Stderr})

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown timezone %q: %v\n", *timezone, err)
		os.Exit(2)
	}

	client := inquiryclient.New(*server,
		inquiryclient.WithLocation(loc),
		inquiryclient.WithTimeout(*timeout),
		inquiryclient.WithLogger(log),
	)

	ctx, stop := signalContext()

	if *loadRules {
		if err := client.LoadRules(ctx); err != nil {
			log.Warn().Err(err).Msg("using built-in rules")
		}
	}

	code := run(ctx, client, form)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, client *inquiryclient.Client, form inquiryclient.Form) int {
	res, err := client.Submit(ctx, form)
	if inquiryclient.IsValidation(err) {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, res.Message)
		fmt.Fprintf(os.Stderr, "cause: %v\n", err)
		return 1
	}

	switch res.Kind {
	case inquiryclient.KindAccepted:
		fmt.Println(res.Message)
		return 0
	case inquiryclient.KindRedirected:
		fmt.Printf("accepted (redirect to %s)\n", res.Location)
		return 0
	case inquiryclient.KindConfirmed:
		fmt.Println("accepted")
		return 0
	default:
		fmt.Fprintln(os.Stderr, res.Message)
		for field, msg := range res.Errors {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		return 1
	}
}
