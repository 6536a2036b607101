package rewards

// catalog is the fixed set of reward tasks shipped with the game.
var catalog = []Task{
	// Daily
	{ID: "daily_login", Title: "Login today", Description: "Open the app and login today", Reward: 2, Trigger: "login", Type: Daily},
	{ID: "play_daily_game", Title: "Play a daily game", Description: "Play at least one game today", Reward: 3, Trigger: "game_played", Type: Daily},
	{ID: "daily_tournament", Title: "Join a tournament", Description: "Play a tournament today", Reward: 5, Trigger: "tournament_played", Type: Daily},
	{ID: "daily_invite", Title: "Invite a friend", Description: "Invite at least one friend today", Reward: 5, Trigger: "invite_friend", Type: Daily},
	{ID: "daily_store_visit", Title: "Visit the store", Description: "Open the in-game store", Reward: 1, Trigger: "store_visit", Type: Daily},
	{ID: "daily_wallet_check", Title: "Check wallet", Description: "Open your wallet today", Reward: 1, Trigger: "wallet_opened", Type: Daily},
	{ID: "share_score", Title: "Share your score", Description: "Share your score on social media", Reward: 3, Trigger: "shared_score", Type: Daily},
	{ID: "watch_ad", Title: "Watch a reward ad", Description: "Watch an ad to earn bonus", Reward: 2, Trigger: "ad_watched", Type: Daily},
	{ID: "daily_correct_10", Title: "Answer 10 questions correctly", Description: "Get 10 correct answers in a day", Reward: 3, Trigger: "correct_10", Type: Daily},
	{ID: "rate_us", Title: "Rate the app", Description: "Give Thinxi a rating", Reward: 5, Trigger: "app_rated", Type: Daily},

	// Weekly
	{ID: "week_streak", Title: "Complete 7-day streak", Description: "Log in and play 7 days in a row", Reward: 20, Trigger: "streak_7days", Type: Weekly},
	{ID: "win_3_tournaments", Title: "Win 3 tournaments", Description: "Be the winner in 3 tournaments this week", Reward: 15, Trigger: "win_3_tournaments", Type: Weekly},
	{ID: "invite_3_friends", Title: "Invite 3 friends", Description: "Send 3 invites this week", Reward: 10, Trigger: "invite_3_week", Type: Weekly},
	{ID: "share_weekly_score", Title: "Share weekly score", Description: "Share your score at the end of the week", Reward: 5, Trigger: "share_weekly", Type: Weekly},
	{ID: "leaderboard_top100", Title: "Enter Top 100", Description: "Be in top 100 in leaderboard", Reward: 25, Trigger: "leaderboard_100", Type: Weekly},
	{ID: "answer_300_questions", Title: "Answer 300 questions", Description: "Complete 300 questions this week", Reward: 10, Trigger: "answer_300", Type: Weekly},
	{ID: "weekly_wallet_topup", Title: "Top up wallet", Description: "Add money to your wallet this week", Reward: 5, Trigger: "wallet_topup", Type: Weekly},
	{ID: "store_purchase", Title: "Buy from store", Description: "Make a purchase in store", Reward: 5, Trigger: "purchase_store", Type: Weekly},
	{ID: "video_bonus_weekly", Title: "Watch 5 ads", Description: "Watch 5 ads during the week", Reward: 5, Trigger: "ad_5_week", Type: Weekly},
	{ID: "update_profile", Title: "Update your profile", Description: "Edit your profile info", Reward: 3, Trigger: "updated_profile", Type: Weekly},

	// Monthly
	{ID: "monthly_streak", Title: "Login 30 days", Description: "Stay active every day for a month", Reward: 50, Trigger: "login_30", Type: Monthly},
	{ID: "monthly_winner", Title: "Win 10 tournaments", Description: "Win 10 tournaments this month", Reward: 30, Trigger: "win_10", Type: Monthly},
	{ID: "invite_10_friends", Title: "Invite 10 friends", Description: "Bring 10 new friends to Thinxi", Reward: 40, Trigger: "invite_10", Type: Monthly},
	{ID: "ranked_top10", Title: "Get in top 10", Description: "Enter Top 10 leaderboard", Reward: 50, Trigger: "leaderboard_10", Type: Monthly},
	{ID: "power_user", Title: "Play 100 games", Description: "Play 100 games this month", Reward: 25, Trigger: "play_100", Type: Monthly},
	{ID: "big_spender", Title: "Spend in store", Description: "Use your coins or money in store", Reward: 20, Trigger: "store_spent", Type: Monthly},
	{ID: "watch_20_ads", Title: "Watch 20 videos", Description: "Watch 20 ads this month", Reward: 10, Trigger: "ad_20_month", Type: Monthly},
	{ID: "earn_100_points", Title: "Earn 100 points", Description: "Earn 100 game points this month", Reward: 20, Trigger: "earned_100", Type: Monthly},
	{ID: "use_translator", Title: "Use AI Translator", Description: "Translate questions using AI", Reward: 5, Trigger: "used_translator", Type: Monthly},
	{ID: "monthly_feedback", Title: "Submit feedback", Description: "Send your feedback to Thinxi", Reward: 10, Trigger: "feedback_sent", Type: Monthly},
}

// Catalog returns a copy of the reward task catalogue.
func Catalog() []Task {
	return append([]Task(nil), catalog...)
}
