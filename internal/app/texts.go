package app

import "strconv"

// User-facing messages. The bot speaks Uzbek.
const (
	msgGreeting        = "Assalomu alaykum! Panelni tanlang:"
	msgChoosePanel     = "Qaysi panelga qo‘shmoqchisiz?"
	msgChooseSubPanel  = " ichidagi panelni tanlang:"
	msgAskCommandName  = " panelga qo‘shmoqchi bo‘lgan komandani nomini kiriting:"
	msgAskDescription  = "Bu komanda nima qilishi kerakligini yozing:"
	msgEmptyInput      = "Bo‘sh xabar qabul qilinmaydi. Qaytadan kiriting:"
	msgRegisterFailed  = "Saqlashda xatolik yuz berdi. Tavsifni qaytadan yuboring."
	msgSessionExpired  = "Suhbat topilmadi. /start orqali qaytadan boshlang."
	msgUseButtons      = "Iltimos, tugmalardan birini tanlang."
	msgCodeNotFound    = "Bunday kod topilmadi."
	msgUnknownInput    = "Kod raqamini yuboring yoki /start bosing."
	msgNotAllowed      = "Bu buyruq faqat adminlar uchun."
	msgBtnAddCommand   = "Komanda qo‘shish"
	msgBtnAllCommands  = "Barcha komandalar"
	msgNoCodes         = "Hozircha kodlar yo‘q."
	msgNoAdmins        = "Adminlar ro‘yxati bo‘sh."
	msgDeleteOK        = "Kod o‘chirildi."
	msgDeleteMissing   = "Bunday kod yo‘q, hech narsa o‘chirilmadi."
	msgRenameOK        = "Kod yangilandi."
	msgAdminAdded      = "Admin qo‘shildi."
	msgAdminRemoved    = "Admin o‘chirildi."
	msgUsageDelCode    = "Foydalanish: /delcode <kod>"
	msgUsageRename     = "Foydalanish: /rename <eski_kod> <yangi_kod> <yangi_nom>"
	msgUsageAddAdmin   = "Foydalanish: /addadmin <user_id>"
	msgUsageDelAdmin   = "Foydalanish: /deladmin <user_id>"
	msgUsageBroadcast  = "Foydalanish: /broadcast <xabar>"
	msgUsageAddCode    = "Foydalanish: /addcode <nom> (videoga javob sifatida yuborilsa, video biriktiriladi)"
	msgInternalError   = "Ichki xatolik yuz berdi. Keyinroq urinib ko‘ring."
)

func registeredMsg(name, description, panel, subPanel string) string {
	return "Komanda '" + name + ": " + description + "' " + panel + "/" + subPanel + " ga muvaffaqiyatli qo‘shildi!"
}

func codeAddedMsg(code int, title string) string {
	return "Kod " + strconv.Itoa(code) + " qo‘shildi: " + title
}
