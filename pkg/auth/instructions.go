package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowAPICredentialsGuide explains where the API id and hash come from
func ShowAPICredentialsGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "TELEGRAM API CREDENTIALS")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This tool logs in as your own Telegram account and needs an")
	fmt.Fprintln(w, "application id and hash to talk to the Telegram API.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1. Open https://my.telegram.org and log in with your phone number")
	fmt.Fprintln(w, "  2. Choose 'API development tools'")
	fmt.Fprintln(w, "  3. Create an application (any title and short name will do)")
	fmt.Fprintln(w, "  4. Copy 'App api_id' (a number) and 'App api_hash' (32 hex characters)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The values are saved locally so you are only asked once.")
	fmt.Fprintln(w, "You can also set TGDL_API_ID and TGDL_API_HASH instead.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Never share the api_hash: anyone holding it can act as your application.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
}
