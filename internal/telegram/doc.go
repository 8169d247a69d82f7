// Package telegram sends course-change announcements through the Telegram
// Bot API.
//
// Requests are plain JSON POSTs to sendMessage. Authentication requires a bot
// token (from @BotFather) and a chat ID.
package telegram
