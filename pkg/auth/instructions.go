package auth

import (
	"fmt"
	"strings"
)

// ShowTokenGuide displays step-by-step instructions for obtaining an Apify
// API token
func ShowTokenGuide() {
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("🔑 APIFY API TOKEN GUIDE")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()

	fmt.Println("This tool runs a TikTok actor on the Apify platform, which requires")
	fmt.Println("a personal API token. To get one:")
	fmt.Println()

	fmt.Println("🌐 STEP 1: Sign in to the Apify Console")
	fmt.Println("   - Go to https://console.apify.com")
	fmt.Println("   - Create a free account if you don't have one")
	fmt.Println()

	fmt.Println("⚙️  STEP 2: Open your API settings")
	fmt.Println("   - Click your profile picture (bottom left)")
	fmt.Println("   - Choose Settings, then the 'API & Integrations' tab")
	fmt.Println()

	fmt.Println("📋 STEP 3: Copy the token")
	fmt.Println("   - Copy the 'Personal API token' value")
	fmt.Println("   - It looks like: apify_api_AbCdEf...")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • Use 'ttscraper auth login' to store the token securely")
	fmt.Println("   • Or export APIFY_API_TOKEN in your shell or .env file")
	fmt.Println()

	fmt.Println("⚠️  SECURITY WARNING:")
	fmt.Println("   • The token gives full access to your Apify account")
	fmt.Println("   • NEVER commit it to version control")
	fmt.Println("   • This tool stores it in your system keychain or an encrypted file")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()
}

// ShowQuickTokenGuide shows a condensed version for experienced users
func ShowQuickTokenGuide() {
	fmt.Println("\n🔑 Quick guide: console.apify.com → Settings → API & Integrations → Personal API token")
	fmt.Println("   Then: ttscraper auth login, or export APIFY_API_TOKEN")
}
