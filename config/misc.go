package config

// DefaultChatPageTemplate is served by GET /chat when no template document is configured.
// {{messages}} and {{numChats}} are substituted by the handler.
const DefaultChatPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ERP Assistant</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 0; background: #f4f6f8; }
#log { max-width: 860px; margin: 24px auto; padding: 0 16px 120px; }
.msg { background: #fff; border-radius: 8px; padding: 12px 16px; margin: 10px 0; box-shadow: 0 1px 2px rgba(0,0,0,.08); }
.msg .q { color: #555; font-size: 13px; margin-bottom: 6px; }
form { position: fixed; bottom: 0; left: 0; right: 0; background: #fff; padding: 16px; display: flex; gap: 8px; border-top: 1px solid #ddd; }
form input[type=text] { flex: 1; padding: 10px; font-size: 15px; }
</style>
</head>
<body>
<div id="log"></div>
<form id="chat">
<input type="text" name="user_input" placeholder="Ask about your data, or: approve PO123, receive PO123" autocomplete="off">
<button type="submit">Send</button>
</form>
<script>
var messages = {{messages}};
var numChats = {{numChats}};
var chatId = (window.crypto && crypto.randomUUID) ? crypto.randomUUID() : String(Date.now());
function render(m) {
  var div = document.createElement("div");
  div.className = "msg";
  var q = document.createElement("div");
  q.className = "q";
  q.textContent = m.user_request;
  var a = document.createElement("div");
  a.textContent = m.final_text_response;
  div.appendChild(q);
  div.appendChild(a);
  if (m.file_name) {
    var link = document.createElement("a");
    link.href = "file?id=" + encodeURIComponent(m.file_name);
    link.textContent = "Download results";
    div.appendChild(link);
  }
  document.getElementById("log").appendChild(div);
}
messages.forEach(render);
document.getElementById("chat").addEventListener("submit", function (e) {
  e.preventDefault();
  var input = e.target.user_input;
  var body = new URLSearchParams({ user_input: input.value, current_chatId: chatId });
  input.value = "";
  fetch("chat", { method: "POST", body: body })
    .then(function (r) { return r.json(); })
    .then(function (data) { data.message.forEach(render); });
});
</script>
</body>
</html>
`
